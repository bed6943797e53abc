package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// Upload is a file attached to a multipart product form.
type Upload struct {
	Filename string
	Content  io.Reader
}

type formField struct {
	name, value string
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields []formField, image *Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrapf(err, "write field %s", f.name)}
		}
	}
	if image != nil && image.Content != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrap(err, "create image part")}
		}
		if _, err := io.Copy(part, image.Content); err != nil {
			return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrap(err, "copy image")}
		}
	}
	if err := w.Close(); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Err: errors.Wrap(err, "close multipart body")}
	}

	raw, err := c.send(ctx, method, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return decodeInto(method, path, raw, out)
}
