// Package mhtdoc decodes MHT (MIME HTML) web archives.
//
// An MHT archive is a single file holding a saved web page: a multipart
// MIME container whose first HTML part is the page itself and whose
// remaining parts are the resources the page references, each stored under
// its original URL in a Content-Location header. Browsers write these as
// .mht or .mhtml; mail clients save the same shape as .eml.
//
// # Reading
//
// Open a file or any io.Reader:
//
//	r, err := mhtdoc.Open("page.mht")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for _, part := range r.Parts() {
//	    fmt.Println(part.MediaType, part.ContentLocation)
//	}
//
// The archive is decoded fully up front. [Reader.Root] returns the page's
// HTML part, [Reader.Parts] every part in file order, and [Reader.Registry]
// the index used to resolve references.
//
// # Error Policy
//
// Only a broken container is fatal: no parseable header block, no boundary
// parameter, or no opening boundary within the scan window yields
// [ErrMalformedContainer], and an archive without an HTML document yields
// [ErrMissingRoot]. Everything below the container level - an undecodable
// base64 body, an unknown transfer encoding - is recovered per part: the
// raw bytes are kept and a [Warning] is recorded, because the remaining
// parts are usually fine.
//
// # Transfer and Charset Decoding
//
// Bodies are unwrapped from base64 or quoted-printable transfer encoding;
// 7bit, 8bit, binary and absent encodings pass through. [Part.Text] decodes
// a text body to a string using the declared charset, falling back to UTF-8
// and then ISO-8859-1, substituting rather than failing on bad sequences.
//
// # Bare HTML
//
// [FromHTML] wraps a plain HTML document in a one-part Reader with an empty
// registry, so a saved page without its resources flows through the same
// pipeline and merely reports its unresolvable references.
package mhtdoc
