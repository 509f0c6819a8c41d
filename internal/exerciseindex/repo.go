package exerciseindex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/gymflow/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const itemColumns = `id, name, category, subcategory, tier, video_url, time_segment,
	instructions, tags, is_custom, created_by, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(
		&it.ID, &it.Name, &it.Category, &it.Subcategory, &it.Tier, &it.VideoURL, &it.TimeSegment,
		&it.Instructions, &it.Tags, &it.IsCustom, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return &it, nil
}

func (r *Repo) ListAll(ctx context.Context) (_ []Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM exercise_index
		ORDER BY category, subcategory, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		items = append(items, *it)
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	return items, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	it, err := scanItem(r.db.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM exercise_index WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// ExistsByName reports whether an exercise with exactly this name exists.
func (r *Repo) ExistsByName(ctx context.Context, name string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.exists")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var exists bool
	err = r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM exercise_index WHERE name = $1)
	`, name).Scan(&exists)
	return exists, err
}

func (r *Repo) Add(ctx context.Context, item Item) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	added, err := scanItem(r.db.QueryRow(ctx, `
		INSERT INTO exercise_index
			(name, category, subcategory, tier, video_url, time_segment, instructions, tags, is_custom, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns,
		item.Name, item.Category, item.Subcategory, item.Tier, item.VideoURL, item.TimeSegment,
		item.Instructions, tags, item.IsCustom, item.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("insert exercise %s: %w", item.Name, err)
	}

	span.SetAttributes(attribute.Int("id", added.ID))
	return added, nil
}

func (r *Repo) Update(ctx context.Context, id int, patch ItemPatch) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.update")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Subcategory != nil {
		add("subcategory", *patch.Subcategory)
	}
	if patch.Tier != nil {
		add("tier", *patch.Tier)
	}
	if patch.VideoURL != nil {
		add("video_url", *patch.VideoURL)
	}
	if patch.TimeSegment != nil {
		add("time_segment", *patch.TimeSegment)
	}
	if patch.Instructions != nil {
		add("instructions", *patch.Instructions)
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		add("tags", tags)
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	updated, err := scanItem(r.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE exercise_index SET %s WHERE id = $%d RETURNING %s
	`, strings.Join(sets, ", "), len(args), itemColumns), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update exercise %d: %w", id, err)
	}

	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exerciseindex.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_index WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
