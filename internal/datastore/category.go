package datastore

import (
	"context"

	"givehub/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCategory(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Category)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateTable().Model((*models.CategoryRelation)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CategoryRelation)(nil)).Index("index_category_relation_pair").IfNotExists().Unique().Column("category", "related").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertCategory(ctx context.Context, db *bun.DB, category *models.Category) error {
	_, err := db.NewInsert().Model(category).On("CONFLICT (slug) DO NOTHING").Exec(ctx)
	return err
}

func InsertCategoryRelation(ctx context.Context, db *bun.DB, relation *models.CategoryRelation) error {
	_, err := db.NewInsert().Model(relation).On("CONFLICT (category, related) DO NOTHING").Exec(ctx)
	return err
}

// GetRelatedCategories walks one hop from the given categories.
func GetRelatedCategories(ctx context.Context, db *bun.DB, categories []string) ([]string, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	var related []string
	err := db.NewSelect().Model((*models.CategoryRelation)(nil)).
		ColumnExpr("DISTINCT related").
		Where("category IN (?)", bun.In(categories)).
		Scan(ctx, &related)
	if err != nil {
		return nil, err
	}

	return related, nil
}
