package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"ghdash/core"
	dbtx "ghdash/db/tx"
	"ghdash/models"
)

type PostgresRepositoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for repositories table
var repositoriesColumns = []string{
	"id",
	"external_id",
	"owner",
	"name",
	"created_at",
	"updated_at",
}

func NewPostgresRepositoriesRepository(db *sqlx.DB, schema string) *PostgresRepositoriesRepository {
	return &PostgresRepositoriesRepository{db: db, schema: schema}
}

func (r *PostgresRepositoriesRepository) CreateRepository(ctx context.Context, repository *models.Repository) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.repositories (id, external_id, owner, name, created_at, updated_at) 
		VALUES ($1, $2, $3, $4, NOW(), NOW()) 
		RETURNING %s`, r.schema, returningStr)

	var created models.Repository
	err := db.QueryRowxContext(ctx, query,
		repository.ID, repository.ExternalID, repository.Owner, repository.Name).
		StructScan(&created)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	*repository = created
	return nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByExternalID(
	ctx context.Context,
	externalID int64,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.repositories 
		WHERE external_id = $1`, columnsStr, r.schema)

	var repository models.Repository
	err := db.GetContext(ctx, &repository, query, externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	return mo.Some(&repository), nil
}

// UpdateRepository replaces all mutable fields of the row identified by id.
func (r *PostgresRepositoriesRepository) UpdateRepository(
	ctx context.Context,
	id string,
	params models.RepositoryParams,
) (*models.Repository, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.repositories 
		SET owner = $2, name = $3, updated_at = NOW() 
		WHERE id = $1 
		RETURNING %s`, r.schema, returningStr)

	var updated models.Repository
	err := db.QueryRowxContext(ctx, query, id, params.Owner, params.Name).StructScan(&updated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("repository %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update repository: %w", err)
	}

	return &updated, nil
}
