package app

import (
	"context"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 320

// QRCode renders the property's public URL as a PNG. base is the scheme and host to use.
func (s *GuideService) QRCode(ctx context.Context, slug, base string) ([]byte, error) {
	p, err := s.repo.GetPropertyBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(PublicURL(base, p.Slug), qrcode.Medium, qrSize)
}
