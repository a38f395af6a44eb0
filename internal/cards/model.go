package cards

// Card is the subset of a catalog card record the decklist needs.
type Card struct {
	Name      string            `json:"name"`
	TypeLine  string            `json:"type_line"`
	ImageURIs map[string]string `json:"image_uris,omitempty"`
	CardFaces []Face            `json:"card_faces,omitempty"`
}

// Face is one side of a multi-faced card.
type Face struct {
	Name      string            `json:"name"`
	TypeLine  string            `json:"type_line"`
	ImageURIs map[string]string `json:"image_uris,omitempty"`
}

// TypeText returns the type line used for classification. Multi-faced cards
// without a top-level type line fall back to their front face.
func (c Card) TypeText() string {
	if c.TypeLine != "" {
		return c.TypeLine
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].TypeLine
	}
	return ""
}

// ImageURL returns the image of the requested size ("small", "normal", ...),
// looking at the front face when the card has no top-level images.
func (c Card) ImageURL(size string) string {
	if u := c.ImageURIs[size]; u != "" {
		return u
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].ImageURIs[size]
	}
	return ""
}
