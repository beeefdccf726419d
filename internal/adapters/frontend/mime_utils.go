package frontend

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/jaytaylor/html2text"
)

// extractTextFromMessage extracts the analyzable text from an email message.
// For multipart messages it prefers text/plain parts; when only text/html is
// present the markup is converted to plain text first.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		if strings.Contains(strings.ToLower(contentType), "text/html") {
			return htmlToText(string(bodyBytes)), nil
		}
		return string(bodyBytes), nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", err
		}
		return string(bodyBytes), nil
	}

	mr := multipart.NewReader(msg.Body, boundary)

	var plainContent bytes.Buffer
	var htmlContent bytes.Buffer

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		partContentType := strings.ToLower(part.Header.Get("Content-Type"))

		switch {
		case strings.Contains(partContentType, "text/plain"):
			partBytes, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			plainContent.Write(partBytes)
			plainContent.WriteString("\n")
		case strings.Contains(partContentType, "text/html"):
			partBytes, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			htmlContent.Write(partBytes)
			htmlContent.WriteString("\n")
		}
		// Skip nested multiparts and attachments.
	}

	if plainContent.Len() > 0 {
		return plainContent.String(), nil
	}
	if htmlContent.Len() > 0 {
		return htmlToText(htmlContent.String()), nil
	}

	return "[No text content found in multipart message]", nil
}

// htmlToText converts HTML markup to plain text. Links are preserved as
// bare URLs so the URL feature checks still see them.
func htmlToText(markup string) string {
	text, err := html2text.FromString(markup, html2text.Options{TextOnly: false})
	if err != nil {
		return markup
	}
	return text
}

// decodeEncodedHeader decodes RFC 2047 encoded-word headers
func decodeEncodedHeader(header string) (string, error) {
	decoder := new(mime.WordDecoder)
	return decoder.DecodeHeader(header)
}
