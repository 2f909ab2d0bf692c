package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/smj9504/mj-estimate/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) documentdomain.Repository {
	return &repository{db: conn}
}

func (r *repository) WithTrx(tx *gorm.DB) documentdomain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, doc *documentdomain.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, documentdomain.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repository) FindLatest(ctx context.Context, docType documentdomain.DocumentType, number string) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := r.db.WithContext(ctx).
		First(&doc, "type = ? AND number = ? AND is_latest = ?", docType, number, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, documentdomain.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repository) FindLatestForUpdate(ctx context.Context, docType documentdomain.DocumentType, number string) (*documentdomain.Document, error) {
	stmt := r.db.WithContext(ctx)
	if db.SupportsRowLocking(r.db) {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var doc documentdomain.Document
	err := stmt.First(&doc, "type = ? AND number = ? AND is_latest = ?", docType, number, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, documentdomain.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *repository) List(ctx context.Context, filter documentdomain.ListFilter) ([]documentdomain.Document, error) {
	stmt := r.db.WithContext(ctx).Model(&documentdomain.Document{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.CompanyCode != "" {
		stmt = stmt.Where("company_code = ?", filter.CompanyCode)
	}
	if filter.Number != "" {
		stmt = stmt.Where("number = ?", filter.Number)
	}
	if filter.LatestOnly {
		stmt = stmt.Where("is_latest = ?", true)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}

	var docs []documentdomain.Document
	if err := stmt.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repository) CountMatching(ctx context.Context, docType documentdomain.DocumentType, pattern string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&documentdomain.Document{}).
		Where("type = ? AND number LIKE ?", docType, pattern).
		Count(&count).Error
	return count, err
}

func (r *repository) ExistsLatest(ctx context.Context, docType documentdomain.DocumentType, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&documentdomain.Document{}).
		Where("type = ? AND number = ? AND is_latest = ?", docType, number, true).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Versions(ctx context.Context, docType documentdomain.DocumentType, number string) ([]int, error) {
	var versions []int
	err := r.db.WithContext(ctx).Model(&documentdomain.Document{}).
		Where("type = ? AND number = ?", docType, number).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *repository) MarkAllNotLatest(ctx context.Context, docType documentdomain.DocumentType, number string) error {
	return r.db.WithContext(ctx).Model(&documentdomain.Document{}).
		Where("type = ? AND number = ?", docType, number).
		Updates(map[string]any{"is_latest": false, "updated_at": time.Now().UTC()}).Error
}

// NextSequence increments the (docType, companyCode) counter in a single
// UPDATE so two concurrent allocations can never observe the same value.
// A missing counter row is seeded from seed()+1; losing the seeding race
// falls back to bumping the row the winner created.
func (r *repository) NextSequence(ctx context.Context, docType documentdomain.DocumentType, companyCode string, seed func(ctx context.Context) (int64, error)) (int64, error) {
	for attempt := 0; attempt < 3; attempt++ {
		seq, err := r.bumpCounter(ctx, docType, companyCode)
		if err != nil {
			return 0, err
		}
		if seq > 0 {
			return seq, nil
		}

		seedValue, err := seed(ctx)
		if err != nil {
			return 0, err
		}

		row := documentdomain.DocumentSequence{
			DocType:     docType,
			CompanyCode: companyCode,
			NextValue:   seedValue + 1,
			UpdatedAt:   time.Now().UTC(),
		}
		err = r.db.WithContext(ctx).Create(&row).Error
		if err == nil {
			return row.NextValue, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return 0, err
		}
		// Another allocator seeded the counter first; bump it instead.
	}
	return 0, fmt.Errorf("next sequence for %s/%s: seeding retries exhausted", docType, companyCode)
}

func (r *repository) bumpCounter(ctx context.Context, docType documentdomain.DocumentType, companyCode string) (int64, error) {
	if r.db.Dialector.Name() == "mysql" {
		return r.bumpCounterMySQL(ctx, docType, companyCode)
	}

	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`UPDATE document_sequences
		 SET next_value = next_value + 1, updated_at = ?
		 WHERE doc_type = ? AND company_code = ?
		 RETURNING next_value`,
		time.Now().UTC(), docType, companyCode,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// MySQL has no UPDATE ... RETURNING; the row lock held by the UPDATE keeps
// the follow-up SELECT consistent within the transaction.
func (r *repository) bumpCounterMySQL(ctx context.Context, docType documentdomain.DocumentType, companyCode string) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE document_sequences
			 SET next_value = next_value + 1, updated_at = ?
			 WHERE doc_type = ? AND company_code = ?`,
			time.Now().UTC(), docType, companyCode,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Raw(
			`SELECT next_value FROM document_sequences WHERE doc_type = ? AND company_code = ?`,
			docType, companyCode,
		).Scan(&seq).Error
	})
	return seq, err
}
