package upload

import (
	"context"
	"fmt"

	"github.com/princekumarofficial/media-service/internal/config"
)

// NewRemote builds the stream uploader selected by cfg.Provider.
func NewRemote(ctx context.Context, cfg config.Remote) (StreamUploader, error) {
	switch cfg.Provider {
	case config.ProviderMinIO:
		m, err := NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderCloudinary, "":
		c, err := NewCloudinary(cfg.CloudName, cfg.APIKey, cfg.APISecret)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown remote provider %q", cfg.Provider)
	}
}
