package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
)

// sniffLen is how many bytes http.DetectContentType considers.
const sniffLen = 512

type uploadResponse struct {
	MediaIDString string `json:"media_id_string"`
	Size          int64  `json:"size"`
	Image         *struct {
		ImageType string `json:"image_type"`
	} `json:"image,omitempty"`
}

// UploadMedia uploads a photo or GIF with the simple upload endpoint and
// returns the media id to attach in TweetRequest.MediaIDs. The content type
// is detected from the data.
func (c *Client) UploadMedia(ctx context.Context, r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read media: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("media %s is empty", filename)
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mediaType := http.DetectContentType(head)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload: %w", err)
	}

	var out uploadResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/1.1/media/upload.json",
		rawBody:     buf.Bytes(),
		contentType: mw.FormDataContentType(),
		host:        c.uploadURL,
		userContext: true,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	c.logger.Debug().
		Str("media_id", out.MediaIDString).
		Str("content_type", mediaType).
		Int("bytes", len(data)).
		Msg("Uploaded media")
	return out.MediaIDString, nil
}
