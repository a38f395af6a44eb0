package api

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/decklist/internal/deck"
	imagepkg "github.com/youruser/decklist/internal/image"
)

// qr returns a PNG QR code of the text export.
func (h *Handler) qr(c *gin.Context) {
	payload, d, ok := h.loadDecklist(c)
	if !ok {
		return
	}
	b, err := imagepkg.GenerateQRPNG(deck.ExportText(payload.DecklistName, payload.DecklistPlayerName, d), h.qrSize)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// shareImage composes art for the first few cards (in render order) with the
// QR code. Art is best-effort: cards whose lookup or download fails are left out.
func (h *Handler) shareImage(c *gin.Context) {
	payload, d, ok := h.loadDecklist(c)
	if !ok {
		return
	}
	qrImg, err := imagepkg.GenerateQRImage(deck.ExportText(payload.DecklistName, payload.DecklistPlayerName, d), h.qrSize)
	if err != nil {
		h.logger.Warn("share image without qr", zap.Error(err))
	}

	art, err := h.fetchArt(c.Request.Context(), featuredNames(d, h.maxArt))
	if err != nil {
		h.logger.Debug("share image abandoned", zap.Error(err))
		c.AbortWithStatus(http.StatusServiceUnavailable)
		return
	}
	out := imagepkg.ComposeShareImage(art, qrImg, h.qrSize)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func featuredNames(d deck.Decklist, limit int) []string {
	var names []string
	for _, node := range deck.ToRenderTree(d, deck.Categories) {
		for _, card := range node.Cards {
			if len(names) >= limit {
				return names
			}
			names = append(names, card.Name)
		}
	}
	return names
}

// fetchArt looks up and downloads art for names, in order. A card that cannot
// be fetched leaves a nil slot; only cancellation of ctx is returned.
func (h *Handler) fetchArt(ctx context.Context, names []string) ([]image.Image, error) {
	art := make([]image.Image, len(names))
	if h.catalog == nil || len(names) == 0 {
		return art, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			card, err := h.catalog.Card(gctx, name)
			if err != nil {
				h.logger.Warn("card lookup error", zap.String("name", name), zap.Error(err))
				return nil
			}
			u := card.ImageURL("small")
			if u == "" {
				return nil
			}
			img, err := imagepkg.DownloadImage(gctx, h.http, u)
			if err != nil {
				h.logger.Warn("card art download error", zap.String("name", name), zap.Error(err))
				return nil
			}
			art[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return art, ctx.Err()
}
