package products

import (
	"context"
	"sort"
	"strings"

	"ecom_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRepository reproduit les filtres MongoDB sur une liste en mémoire
type fakeRepository struct {
	products    []models.Product
	searchCalls int
}

func (f *fakeRepository) published() []models.Product {
	var out []models.Product
	for _, p := range f.products {
		if p.IsPublished {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeRepository) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	// ordre de stockage, pas celui des ids
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) TopSelling(_ context.Context, field string, values []string, exclude []primitive.ObjectID, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.published() {
		v := p.Category
		if field == "subCategory" {
			v = p.SubCategory
		}
		if !contains(values, v) || containsID(exclude, p.ID) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NumSales > out[j].NumSales })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepository) CategoryCounts(context.Context) ([]CategoryCount, error) {
	byCat := map[string]map[string]int{}
	for _, p := range f.published() {
		if byCat[p.Category] == nil {
			byCat[p.Category] = map[string]int{}
		}
		byCat[p.Category][p.SubCategory]++
	}
	var out []CategoryCount
	for cat, subs := range byCat {
		c := CategoryCount{Category: cat}
		for name, n := range subs {
			c.Subcategories = append(c.Subcategories, SubcatCounter{Name: name, Count: n})
			c.TotalCount += n
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepository) SampleImages(_ context.Context, category string, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.published() {
		if p.Category == category && len(p.Images) > 0 && int64(len(out)) < limit {
			out = append(out, models.Product{SubCategory: p.SubCategory, Images: p.Images})
		}
	}
	return out, nil
}

func (f *fakeRepository) DistinctSubcategories(_ context.Context, category string) ([]string, error) {
	var out []string
	for _, p := range f.published() {
		if p.Category == category && !contains(out, p.SubCategory) {
			out = append(out, p.SubCategory)
		}
	}
	return out, nil
}

func (f *fakeRepository) ByTag(_ context.Context, tag string, limit int64) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.published() {
		if contains(p.Tags, tag) && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepository) BySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range f.published() {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) TextSearch(_ context.Context, q string, limit int64) ([]models.Product, error) {
	f.searchCalls++
	var out []models.Product
	for _, p := range f.published() {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepository) Published(context.Context) ([]models.Product, error) {
	return f.published(), nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsID(list []primitive.ObjectID, v primitive.ObjectID) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
