package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/fekuna/omnipos-retail-service/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName     = "products"
	listCacheTTL  = 5 * time.Minute
	listCacheKeys = "products:list:*"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"sku": { "type": "keyword" },
			"category": { "type": "keyword" },
			"variants": {
				"properties": {
					"size": { "type": "keyword" },
					"unique_code": { "type": "keyword" }
				}
			},
			"sale_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

// Index is the subset of the search client the catalog uses.
type Index interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
}

type productUseCase struct {
	repo   product.Repository
	cache  cache.Cache
	es     Index
	logger logger.ZapLogger
}

// NewProductUseCase accepts nil cache and index; the catalog then reads straight from the repository.
func NewProductUseCase(repo product.Repository, c cache.Cache, es Index, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  c,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) AddProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SKU:       strings.TrimSpace(input.SKU),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		CostPrice: input.CostPrice,
		SalePrice: input.SalePrice,
	}
	if err := uc.applyVariants(ctx, p, input.Variants); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("product added", zap.String("product_id", p.ID), zap.String("name", p.Name), zap.Int("variants", len(p.Variants)))

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p.Clone())
	return p, nil
}

// applyVariants validates the product fields and builds the variant list.
// Existing variant ids are kept when the size matches.
func (uc *productUseCase) applyVariants(ctx context.Context, p *model.Product, inputs []dto.VariantInput) error {
	if p.Name == "" {
		return model.Invalidf("name is required")
	}
	if !p.SalePrice.IsPositive() {
		return model.Invalidf("sale_price must be positive")
	}
	if p.CostPrice.IsNegative() {
		return model.Invalidf("cost_price must not be negative")
	}
	if len(inputs) == 0 {
		return model.Invalidf("at least one variant is required")
	}

	prefix := p.SKU
	if prefix == "" {
		prefix = p.Name
	}

	sizes := map[string]bool{}
	codes := map[string]bool{}
	variants := make([]model.Variant, 0, len(inputs))
	for i, in := range inputs {
		size := strings.TrimSpace(in.Size)
		if size == "" {
			return model.Invalidf("variant %d has no size", i+1)
		}
		if sizes[strings.ToUpper(size)] {
			return model.Invalidf("duplicate size %s", size)
		}
		sizes[strings.ToUpper(size)] = true

		for loc, q := range in.Stock {
			if !loc.Valid() {
				return model.Invalidf("unknown location %q on size %s", loc, size)
			}
			if q < 0 {
				return model.Invalidf("negative stock for size %s at %s", size, loc)
			}
		}

		code := strings.TrimSpace(in.UniqueCode)
		if code == "" {
			code = model.VariantCode(prefix, size)
		}
		if codes[strings.ToUpper(code)] {
			return fmt.Errorf("%w: code %s used twice", model.ErrConflict, code)
		}
		codes[strings.ToUpper(code)] = true
		unique, err := uc.repo.IsCodeUnique(ctx, code, p.ID)
		if err != nil {
			return err
		}
		if !unique {
			return fmt.Errorf("%w: code %s already exists", model.ErrConflict, code)
		}

		id := in.ID
		if prev := p.VariantBySize(size); id == "" && prev != nil {
			id = prev.ID
		}
		if id == "" {
			id = uuid.New().String()
		}
		stock := model.StockLevels{}
		for loc, q := range in.Stock {
			stock[loc] = q
		}
		variants = append(variants, model.Variant{
			ID:         id,
			ProductID:  p.ID,
			Size:       size,
			UniqueCode: code,
			Position:   i,
			Stock:      stock,
		})
	}
	p.Variants = variants
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrProductNotFound
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	cacheKey := ""
	if uc.cache != nil {
		if key, err := generateCacheKey(filters); err == nil {
			cacheKey = key
			if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
				var hit cachedList
				if err := json.Unmarshal(raw, &hit); err == nil {
					return hit.Products, hit.Count, nil
				}
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Warn("product search failed, falling back to store", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Debug("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]any{
		{
			"query_string": map[string]any{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku", "variants.unique_code", "category"},
			},
		},
	}
	if filters.Category != "" {
		must = append(must, map[string]any{"term": map[string]any{"category": filters.Category}})
	}
	q := map[string]any{"query": map[string]any{"bool": map[string]any{"must": must}}}
	if filters.PageSize > 0 {
		page := max(filters.Page, 1)
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, listCacheKeys); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

// Refresh runs synchronously so callers can read their own stock writes.
func (uc *productUseCase) Refresh(ctx context.Context, productID string) {
	uc.invalidateProductCache(ctx)
	if uc.es == nil || productID == "" {
		return
	}
	p, err := uc.repo.FindByID(ctx, productID)
	if err != nil {
		uc.logger.Warn("failed to load product for reindex", zap.String("product_id", productID), zap.Error(err))
		return
	}
	if p == nil {
		return
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrProductNotFound
	}

	p.SKU = strings.TrimSpace(input.SKU)
	p.Name = strings.TrimSpace(input.Name)
	p.Category = strings.TrimSpace(input.Category)
	p.CostPrice = input.CostPrice
	p.SalePrice = input.SalePrice
	if err := uc.applyVariants(ctx, p, input.Variants); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p.Clone())
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("product_id", id), zap.String("name", p.Name))

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.String("product_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) FindByCode(ctx context.Context, code string) (*model.Product, *model.Variant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, model.Invalidf("code is required")
	}
	p, err := uc.repo.FindByVariantCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("%w: no variant with code %s", model.ErrProductNotFound, code)
	}
	return p, p.VariantByCode(code), nil
}
