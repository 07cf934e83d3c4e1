package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// documentRow is one stored document. The body is relaxed extended JSON so
// object ids, dates and nested documents survive the round trip.
type documentRow struct {
	Seq        uint64 `gorm:"primaryKey;autoIncrement"`
	ID         string `gorm:"size:24;uniqueIndex"`
	Collection string `gorm:"size:128;index"`
	Body       string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

// SQL stores documents in a single relational table through GORM. Filters
// are evaluated in process, so it suits small catalogues and local setups
// rather than large collections.
type SQL struct {
	db     *gorm.DB
	name   string
	driver string

	mu     sync.RWMutex
	unique map[string][]string

	// held from the duplicate checks until the row is written
	insertMu sync.Mutex
}

// OpenSQL opens driver/dsn, verifies the connection and migrates the
// documents table. name is reported by Name and never parsed.
func OpenSQL(ctx context.Context, driver, dsn, name string) (*SQL, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, unavailable(fmt.Errorf("sql open: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, unavailable(fmt.Errorf("sql handle: %w", err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, unavailable(fmt.Errorf("sql ping: %w", err))
	}

	if err := db.WithContext(ctx).AutoMigrate(&documentRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("docstore: migrate documents table: %w", err)
	}

	return &SQL{
		db:     db,
		name:   name,
		driver: driver,
		unique: make(map[string][]string),
	}, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported SQL_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

func (s *SQL) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	stored := cloneDocument(doc)
	if _, ok := stored[IDKey]; !ok {
		stored[IDKey] = NewID()
	}

	body, err := bson.MarshalExtJSON(bson.M(stored), false, false)
	if err != nil {
		return "", fmt.Errorf("docstore: encode document: %w", err)
	}

	s.mu.RLock()
	fields := s.unique[collection]
	s.mu.RUnlock()

	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	id := IDString(stored)
	var taken int64
	if err := s.db.WithContext(ctx).Model(&documentRow{}).Where("id = ?", id).Count(&taken).Error; err != nil {
		return "", s.wrap("insert", err)
	}
	if taken > 0 {
		return "", fmt.Errorf("%w: %s.%s", ErrDuplicateKey, collection, IDKey)
	}

	if len(fields) > 0 {
		existing, err := s.scan(ctx, collection)
		if err != nil {
			return "", err
		}
		for _, field := range fields {
			val, ok := stored[field]
			if !ok {
				continue
			}
			for _, row := range existing {
				if other, ok := row.doc[field]; ok && equal(other, val) {
					return "", fmt.Errorf("%w: %s.%s", ErrDuplicateKey, collection, field)
				}
			}
		}
	}

	row := documentRow{ID: id, Collection: collection, Body: string(body)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return "", s.wrap("insert", err)
	}
	return id, nil
}

func (s *SQL) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	rows, err := s.scan(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0)
	for _, row := range rows {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		if matches(row.doc, filter) {
			out = append(out, row.doc)
		}
	}
	return out, nil
}

func (s *SQL) FindOne(ctx context.Context, collection string, filter Filter) (Document, bool, error) {
	docs, err := s.Find(ctx, collection, filter, 1)
	if err != nil || len(docs) == 0 {
		return nil, false, err
	}
	return docs[0], true, nil
}

func (s *SQL) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error) {
	rows, err := s.scan(ctx, collection)
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if !matches(row.doc, filter) {
			continue
		}
		for k, v := range patch {
			if k != IDKey {
				row.doc[k] = v
			}
		}
		body, err := bson.MarshalExtJSON(bson.M(row.doc), false, false)
		if err != nil {
			return 0, fmt.Errorf("docstore: encode document: %w", err)
		}
		err = s.db.WithContext(ctx).
			Model(&documentRow{}).
			Where("seq = ?", row.seq).
			Update("body", string(body)).Error
		if err != nil {
			return 0, s.wrap("update", err)
		}
		return 1, nil
	}
	return 0, nil
}

func (s *SQL) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	if len(filter) == 0 {
		res := s.db.WithContext(ctx).Where("collection = ?", collection).Delete(&documentRow{})
		if res.Error != nil {
			return 0, s.wrap("delete", res.Error)
		}
		return res.RowsAffected, nil
	}

	rows, err := s.scan(ctx, collection)
	if err != nil {
		return 0, err
	}
	var seqs []uint64
	for _, row := range rows {
		if matches(row.doc, filter) {
			seqs = append(seqs, row.seq)
		}
	}
	if len(seqs) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Where("seq IN ?", seqs).Delete(&documentRow{})
	if res.Error != nil {
		return 0, s.wrap("delete", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *SQL) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if len(filter) == 0 {
		var n int64
		err := s.db.WithContext(ctx).Model(&documentRow{}).Where("collection = ?", collection).Count(&n).Error
		if err != nil {
			return 0, s.wrap("count", err)
		}
		return n, nil
	}

	docs, err := s.Find(ctx, collection, filter, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (s *SQL) Name() string   { return s.name }
func (s *SQL) Driver() string { return "sql" }

func (s *SQL) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *SQL) Collections(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Distinct("collection").
		Order("collection").
		Pluck("collection", &names).Error
	if err != nil {
		return nil, s.wrap("list collections", err)
	}
	return names, nil
}

// EnsureIndexes enforces unique specs on later inserts. The table itself
// only indexes id and collection.
func (s *SQL) EnsureIndexes(_ context.Context, specs []IndexSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ix := range specs {
		if !ix.Unique {
			continue
		}
		known := false
		for _, f := range s.unique[ix.Collection] {
			if f == ix.Field {
				known = true
				break
			}
		}
		if !known {
			s.unique[ix.Collection] = append(s.unique[ix.Collection], ix.Field)
		}
	}
	return nil
}

func (s *SQL) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type decodedRow struct {
	seq uint64
	doc Document
}

// scan loads and decodes every document of collection in insertion order.
func (s *SQL) scan(ctx context.Context, collection string) ([]decodedRow, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, s.wrap("find", err)
	}

	out := make([]decodedRow, 0, len(rows))
	for _, row := range rows {
		var doc bson.M
		if err := bson.UnmarshalExtJSON([]byte(row.Body), false, &doc); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", collection, row.ID, err)
		}
		out = append(out, decodedRow{seq: row.Seq, doc: Document(doc)})
	}
	return out, nil
}

func (s *SQL) wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return unavailable(fmt.Errorf("sql %s: %w", op, err))
	}
	if s.Ping(context.Background()) != nil {
		return unavailable(fmt.Errorf("sql %s: %w", op, err))
	}
	return fmt.Errorf("sql %s: %w", op, err)
}
