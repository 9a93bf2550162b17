package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"ecom_back_end/internal/cache"
	"ecom_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RelatedBatchSize  = 10
	sampleImagesLimit = 4
	descriptionMax    = 100
)

// HistoryQuery paramètres de GET /api/product/browsing-history
type HistoryQuery struct {
	Type          string
	IDs           []string
	Categories    []string
	SubCategories []string
}

type Service struct {
	repo   Repository
	search *SearchIndex
	images *ImageResolver
	rdb    *redis.Client
}

func NewService(repo Repository, search *SearchIndex, images *ImageResolver, rdb *redis.Client) *Service {
	if images == nil {
		images = NewImageResolver(nil, "", "")
	}
	return &Service{repo: repo, search: search, images: images, rdb: rdb}
}

// BrowsingHistory "history" garde l'ordre des ids ; "related" classe par ventes
// dans les mêmes sous-catégories, puis complète avec les mêmes catégories.
func (s *Service) BrowsingHistory(ctx context.Context, q HistoryQuery) ([]models.Product, error) {
	if len(q.IDs) == 0 || len(q.Categories) == 0 {
		return []models.Product{}, nil
	}

	ids := parseIDs(q.IDs)

	if q.Type != "related" {
		found, err := s.repo.ByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		position := make(map[primitive.ObjectID]int, len(ids))
		for i, id := range ids {
			if _, seen := position[id]; !seen {
				position[id] = i
			}
		}
		sort.SliceStable(found, func(i, j int) bool {
			return position[found[i].ID] < position[found[j].ID]
		})
		return s.withImages(ctx, found), nil
	}

	related, err := s.repo.TopSelling(ctx, "subCategory", q.SubCategories, ids, RelatedBatchSize)
	if err != nil {
		return nil, err
	}

	if len(related) < RelatedBatchSize {
		exclude := append([]primitive.ObjectID{}, ids...)
		for _, p := range related {
			exclude = append(exclude, p.ID)
		}
		more, err := s.repo.TopSelling(ctx, "category", q.Categories, exclude, int64(RelatedBatchSize-len(related)))
		if err != nil {
			return nil, err
		}
		related = append(related, more...)
	}
	return s.withImages(ctx, related), nil
}

// Categories catalogue fixe enrichi des comptes et images d'exemple
func (s *Service) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	const key = "products:categories"
	var cached []models.CategorySummary
	if s.rdb != nil && cache.GetJSON(ctx, s.rdb, key, &cached) == nil {
		return cached, nil
	}

	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]CategoryCount, len(counts))
	for _, c := range counts {
		byCategory[c.Category] = c
	}

	out := make([]models.CategorySummary, 0, len(models.Categories))
	for _, mapping := range models.Categories {
		data := byCategory[mapping.Name]
		subCounts := make(map[string]int, len(data.Subcategories))
		for _, sc := range data.Subcategories {
			subCounts[sc.Name] = sc.Count
		}

		samples, err := s.repo.SampleImages(ctx, mapping.Name, sampleImagesLimit)
		if err != nil {
			return nil, err
		}
		subImages := make(map[string][]string)
		for _, p := range samples {
			subImages[p.SubCategory] = append(subImages[p.SubCategory], s.images.Resolve(ctx, p.Images)...)
		}

		summary := models.CategorySummary{Name: mapping.Name, Count: data.TotalCount}
		for _, name := range mapping.Subcategories {
			imgs := subImages[name]
			if imgs == nil {
				imgs = []string{}
			}
			summary.Subcategories = append(summary.Subcategories, models.SubcategoryCount{
				Name: name, Count: subCounts[name], SampleImages: imgs,
			})
		}
		if len(samples) > 0 && len(samples[0].Images) > 0 {
			if imgs := s.images.Resolve(ctx, samples[0].Images[:1]); len(imgs) > 0 {
				summary.FeaturedImage = &imgs[0]
			}
		}
		out = append(out, summary)
	}

	if s.rdb != nil {
		if err := cache.SetJSON(ctx, s.rdb, key, out, cache.ProductCacheTTL); err != nil {
			slog.Warn("⚠️ Mise en cache catégories échouée", "error", err)
		}
	}
	return out, nil
}

// Subcategories toutes les sous-catégories connues, avec un indicateur de stock publié
func (s *Service) Subcategories(ctx context.Context, category string) ([]models.SubcategoryAvailability, error) {
	existing, err := s.repo.DistinctSubcategories(ctx, category)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(existing))
	for _, e := range existing {
		set[e] = true
	}

	out := []models.SubcategoryAvailability{}
	for _, name := range models.SubcategoriesOf(category) {
		out = append(out, models.SubcategoryAvailability{Name: name, HasProducts: set[name]})
	}
	return out, nil
}

func (s *Service) ByTag(ctx context.Context, tag string, limit int64) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	key := fmt.Sprintf("products:tag:%s:%d", tag, limit)
	var cached []models.Product
	if s.rdb != nil && cache.GetJSON(ctx, s.rdb, key, &cached) == nil {
		return cached, nil
	}

	found, err := s.repo.ByTag(ctx, tag, limit)
	if err != nil {
		return nil, err
	}
	found = s.withImages(ctx, found)

	if s.rdb != nil {
		_ = cache.SetJSON(ctx, s.rdb, key, found, cache.ProductCacheTTL)
	}
	return found, nil
}

// CardsForTag résumé pour les cartes de la page d'accueil
func (s *Service) CardsForTag(ctx context.Context, tag string, limit int64) ([]models.ProductCard, error) {
	found, err := s.ByTag(ctx, tag, limit)
	if err != nil {
		return nil, err
	}
	cards := make([]models.ProductCard, 0, len(found))
	for _, p := range found {
		card := models.ProductCard{
			Name:        p.Name,
			Href:        "/product/" + p.Slug,
			Images:      p.Images,
			Price:       p.Price,
			ListPrice:   p.ListPrice,
			Category:    p.Category,
			SubCategory: p.SubCategory,
			Description: truncate(p.Description, descriptionMax),
		}
		if len(p.Images) > 0 {
			card.Image = p.Images[0]
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Service) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.Images = s.images.Resolve(ctx, p.Images)
	return p, nil
}

// Search passe par Elasticsearch et retombe sur MongoDB en cas d'échec
func (s *Service) Search(ctx context.Context, q string, limit int) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Product{}, nil
	}

	if s.search != nil {
		found, err := s.search.Search(ctx, q, limit)
		if err == nil {
			return s.withImages(ctx, found), nil
		}
		slog.Warn("⚠️ Elasticsearch indisponible, repli MongoDB", "error", err)
	}

	found, err := s.repo.TextSearch(ctx, q, int64(limit))
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, found), nil
}

// ReindexAll pousse tous les produits publiés dans l'index de recherche
func (s *Service) ReindexAll(ctx context.Context) (int, error) {
	if s.search == nil {
		return 0, errors.New("recherche non configurée")
	}
	all, err := s.repo.Published(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	indexed := 0
	for _, p := range all {
		if err := s.search.Index(ctx, p); err != nil {
			errs = append(errs, err)
			continue
		}
		indexed++
	}
	return indexed, errors.Join(errs...)
}

func (s *Service) withImages(ctx context.Context, list []models.Product) []models.Product {
	for i := range list {
		list[i].Images = s.images.Resolve(ctx, list[i].Images)
	}
	return list
}

func parseIDs(raw []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(r)); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
