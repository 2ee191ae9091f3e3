package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary streams uploads to the Cloudinary upload API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a client from the three account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrCredentialsMissing
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudinary client: %w", err)
	}

	return &Cloudinary{cld: cld}, nil
}

// UploadStream starts an upload whose body is read from the returned writer.
// done fires once the upload API has answered.
func (c *Cloudinary) UploadStream(ctx context.Context, opts Options, done Callback) io.WriteCloser {
	pr, pw := io.Pipe()

	go func() {
		resp, err := c.cld.Upload.Upload(ctx, pr, uploader.UploadParams{
			Folder:         opts.Folder,
			ResourceType:   opts.ResourceType,
			Transformation: opts.Transformation,
		})
		if err != nil {
			err = &RemoteError{Provider: "cloudinary", Message: err.Error(), Err: err}
		} else if resp == nil {
			err = &RemoteError{Provider: "cloudinary", Message: "empty upload response"}
		} else if resp.Error.Message != "" {
			err = &RemoteError{Provider: "cloudinary", Message: resp.Error.Message}
		}

		if err != nil {
			// Unblock the writer if the API gave up before reading the whole body.
			pr.CloseWithError(err)
			done(nil, err)
			return
		}

		pr.Close()
		done(cloudinaryResult(resp), nil)
	}()

	return pw
}

// Destroy deletes an uploaded asset. A missing asset is not an error.
func (c *Cloudinary) Destroy(ctx context.Context, publicID, resourceType string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return &RemoteError{Provider: "cloudinary", Message: err.Error(), Err: err}
	}
	if resp.Error.Message != "" {
		return &RemoteError{Provider: "cloudinary", Message: resp.Error.Message}
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return &RemoteError{Provider: "cloudinary", Message: "destroy returned " + resp.Result}
	}
	return nil
}

func cloudinaryResult(resp *uploader.UploadResult) *Result {
	res := &Result{
		PublicID: resp.PublicID,
		Bytes:    int64(resp.Bytes),
	}

	// duration is only present in the raw response for audio/video assets.
	if fields, ok := resp.Response.(map[string]interface{}); ok {
		res.Fields = fields
		res.Duration = floatField(fields, "duration")
	}

	return res
}

func floatField(fields map[string]interface{}, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
