package repository

import (
	"refurb-catalog/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

// productPredicates folds the present options of filter into a list of typed
// conditions. Absent options contribute nothing, so an empty filter yields an
// empty conjunction.
func productPredicates(filter domain.ProductFilter) sq.And {
	predicates := sq.And{}

	if filter.CategoryID != nil {
		predicates = append(predicates, sq.Eq{"p.category_id": *filter.CategoryID})
	}

	if filter.StockStatus != nil {
		predicates = append(predicates, sq.Eq{"p.stock_status": string(*filter.StockStatus)})
	}

	// false is a real constraint; only nil means "any".
	if filter.IsFeatured != nil {
		predicates = append(predicates, sq.Eq{"p.is_featured": *filter.IsFeatured})
	}

	if term := domain.NormalizeSearch(filter.Search); term != "" {
		pattern := containsPattern(term)
		predicates = append(predicates, sq.Or{
			sq.ILike{"p.name": pattern},
			sq.ILike{"p.description": pattern},
			sq.ILike{"p.brand": pattern},
		})
	}

	return predicates
}

// selectProducts starts a product query joined with the owning category.
// Uncategorized products are kept.
func selectProducts() sq.SelectBuilder {
	return psql.Select(productColumns).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id")
}

// listProductsQuery builds the listing statement for filter.
func listProductsQuery(filter domain.ProductFilter) (string, []interface{}, error) {
	builder := selectProducts()

	if predicates := productPredicates(filter); len(predicates) > 0 {
		builder = builder.Where(predicates)
	}

	return builder.OrderBy("p.created_at DESC", "p.id DESC").ToSql()
}
