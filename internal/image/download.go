package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/youruser/decklist/internal/util"
)

// DownloadImage fetches and decodes an image.
func DownloadImage(ctx context.Context, client util.HTTPDoer, url string) (image.Image, error) {
	resp, body, err := util.GetBytes(ctx, client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}
