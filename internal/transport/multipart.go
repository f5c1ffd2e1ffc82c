package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// FilePart is a binary part of a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data body: plain fields followed by file parts.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range f.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "write field %s", name)
		}
	}
	for _, part := range f.Files {
		data, err := io.ReadAll(part.Content)
		if err != nil {
			return nil, "", errors.Wrapf(err, "read file part %s", part.Field)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.Field), escapeQuotes(part.Filename)))
		h.Set("Content-Type", mimetype.Detect(data).String())
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create file part %s", part.Field)
		}
		if _, err := w.Write(data); err != nil {
			return nil, "", errors.Wrapf(err, "write file part %s", part.Field)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
