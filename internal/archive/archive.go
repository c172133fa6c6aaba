package archive

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Run struct {
	bun.BaseModel `bun:"table:runs,alias:r"`
	ID            string    `bun:"id,pk"`
	Mode          string    `bun:"mode,notnull"`
	Source        string    `bun:"source"`
	InputTokens   int       `bun:"input_tokens,notnull"`
	OutputTokens  int       `bun:"output_tokens,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:a"`
	ID            int64  `bun:"id,pk,autoincrement"`
	RunID         string `bun:"run_id,notnull"`
	Question      string `bun:"question,notnull"`
	Answer        string `bun:"answer,notnull"`
}

func NewDB(sqldb *sql.DB, verbose bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(verbose)))
	return db
}

func ConnectDB(dsn, password string) (*sql.DB, error) {
	dsn = dsn + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(password))), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Run)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := db.NewCreateTable().Model((*Answer)(nil)).IfNotExists().Exec(ctx)
	return err
}

// StoreRun persists one completed run with its resolved answers.
func StoreRun(ctx context.Context, db *bun.DB, run *Run, answers map[string]string) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if _, err := db.NewInsert().Model(run).Exec(ctx); err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	rows := make([]Answer, 0, len(answers))
	for question, answer := range answers {
		rows = append(rows, Answer{
			RunID:    run.ID,
			Question: question,
			Answer:   answer,
		})
	}
	_, err := db.NewInsert().Model(&rows).Exec(ctx)
	return err
}
