// Package cloudinary adapts the Cloudinary upload SDK to domain.ImageUploader.
package cloudinary

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"hotel_booking/internal/adapters/outbound"
	"hotel_booking/internal/domain"
)

const DefaultBaseURL = "https://api.cloudinary.com"

type Client struct {
	sdk *cld.Cloudinary
}

var _ domain.ImageUploader = (*Client)(nil)

// New returns an uploader for cloud. Uploads are never retried, a retry could
// store the asset twice.
func New(base, cloud, apiKey, apiSecret string, rps int) (*Client, error) {
	if cloud == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary cloud name, API key and secret are required")
	}
	sdk, err := cld.NewFromParams(cloud, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	sdk.Config.API.UploadPrefix = base
	sdk.Upload.Config.API.UploadPrefix = base
	sdk.Upload.Client = *outbound.NewHTTPClient("cloudinary", rps, func(*http.Request) string { return "upload" })
	return &Client{sdk: sdk}, nil
}

// Upload sends img as a base64 data URI and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, img domain.Image) (string, error) {
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	// the SDK only recognises a bare type/subtype in a data URI
	ct, _, _ = strings.Cut(ct, ";")
	dataURI := "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(img.Data)

	res, err := c.sdk.Upload.Upload(ctx, dataURI, uploader.UploadParams{ResourceType: "image"})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	if res.SecureURL != "" {
		return res.SecureURL, nil
	}
	if res.URL != "" {
		return res.URL, nil
	}
	return "", errors.New("cloudinary: upload response has no url")
}
