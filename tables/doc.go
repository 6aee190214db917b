// Package tables provides table extraction from HTML documents.
//
// This package walks a parsed HTML tree and pulls out every <table>
// element, tolerating the malformed markup that saved web pages routinely
// contain.
//
// # Extraction Rules
//
// Extraction follows a small set of rules chosen to match how a browser
// interprets the same document:
//
//   - Tables are numbered in depth-first document order, starting at 0.
//   - A table nested inside another table's cell is an independent table
//     with its own index; its rows never leak into the outer table.
//   - Only a table's direct rows are collected, whether they sit
//     immediately under the table or under its thead, tbody, or tfoot.
//   - Cells keep their inner markup: bold text, links, and images survive
//     as serialized HTML. Surrounding whitespace is trimmed.
//   - Whitespace-only cells are kept as empty cells rather than dropped,
//     so cell positions stay stable.
//
// # Short Rows
//
// Rows with fewer than two cells are extracted but flagged through
// [Row.Convertible]. Callers that need a front/back pair skip them and
// count the skips; callers that only inspect structure see every row.
//
// # Tolerant Parsing
//
// Parsing uses the HTML5 algorithm, so unclosed tags, implied tbody
// elements, and stray text inside tables are handled the way a browser
// handles them. Extraction itself never fails on document content.
package tables
