package products

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const signedURLTTL = time.Hour

// ImageResolver transforme les clés d'objets MinIO en URL signées et
// remplace les images manquantes par le placeholder configuré.
type ImageResolver struct {
	client      *minio.Client
	bucket      string
	placeholder string
}

func NewImageResolver(client *minio.Client, bucket, placeholder string) *ImageResolver {
	return &ImageResolver{client: client, bucket: bucket, placeholder: placeholder}
}

// Resolve ne retourne jamais de liste vide si un placeholder est configuré
func (r *ImageResolver) Resolve(ctx context.Context, images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img == "" {
			continue
		}
		out = append(out, r.resolveOne(ctx, img))
	}
	if len(out) == 0 && r.placeholder != "" {
		out = append(out, r.placeholder)
	}
	return out
}

func (r *ImageResolver) resolveOne(ctx context.Context, img string) string {
	// URL absolue ou chemin public : servi tel quel
	if r.client == nil || strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") || strings.HasPrefix(img, "/") {
		return img
	}

	key := strings.TrimPrefix(img, r.bucket+"/")
	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, signedURLTTL, url.Values{})
	if err != nil {
		slog.Warn("⚠️ URL signée impossible", "key", key, "error", err)
		return r.placeholder
	}
	return u.String()
}
