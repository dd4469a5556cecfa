package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/overmindlabs/overmind/internal/repository"
)

const meetingColumns = `id, name, email, phone, type, language, duration_seconds, audio_key, transcript, recap, highlights, status, created_at, updated_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateMeeting(ctx context.Context, input repository.CreateMeetingInput) (*repository.Meeting, error) {
	status := input.Status
	if status == "" {
		status = repository.MeetingStatusPending
	}
	language := input.Language
	if language == "" {
		language = "en-US"
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO meetings (id, name, email, phone, type, language, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+meetingColumns,
		uuid.NewString(), input.Name, input.Email, input.Phone, input.Type, language, status)
	return scanMeeting(row)
}

func (r *PostgresRepository) GetMeeting(ctx context.Context, id string) (*repository.Meeting, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	m, err := scanMeeting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) ListMeetings(ctx context.Context, offset, limit int) ([]repository.Meeting, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+meetingColumns+` FROM meetings ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []repository.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *m)
	}
	return list, total, rows.Err()
}

func (r *PostgresRepository) PatchMeeting(ctx context.Context, id string, input repository.PatchMeetingInput) (*repository.Meeting, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Transcript != nil {
		add("transcript", *input.Transcript)
	}
	if input.Duration != nil {
		add("duration_seconds", *input.Duration)
	}
	if input.AudioKey != nil {
		add("audio_key", *input.AudioKey)
	}
	if input.Recap != nil {
		add("recap", *input.Recap)
	}
	if input.Highlights != nil {
		add("highlights", *input.Highlights)
	}
	if input.Status != nil {
		add("status", *input.Status)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE meetings SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+meetingColumns,
		args...)
	m, err := scanMeeting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) SetMeetingStatus(ctx context.Context, id string, status repository.MeetingStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *PostgresRepository) SaveTranscription(ctx context.Context, id, transcript string, durationSeconds int, audioKey string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET transcript = $2, duration_seconds = $3, audio_key = $4, status = $5, updated_at = NOW() WHERE id = $1`,
		id, transcript, durationSeconds, audioKey, repository.MeetingStatusProcessing)
	return err
}

func (r *PostgresRepository) SaveRecap(ctx context.Context, id, recap string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET recap = $2, updated_at = NOW() WHERE id = $1`, id, recap)
	return err
}

func (r *PostgresRepository) SaveHighlightsCompleted(ctx context.Context, id, highlights string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE meetings SET highlights = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		id, highlights, repository.MeetingStatusCompleted)
	return err
}

func (r *PostgresRepository) DeleteMeeting(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) EnsureSettings(ctx context.Context, defaultContext string) (*repository.AppSettings, error) {
	s, err := r.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO app_settings (highlight_context) VALUES ($1)
		 RETURNING id, highlight_context, created_at, updated_at`,
		defaultContext)
	return scanSettings(row)
}

func (r *PostgresRepository) SaveSettings(ctx context.Context, highlightContext string) (*repository.AppSettings, error) {
	existing, err := r.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		row := r.pool.QueryRow(ctx,
			`INSERT INTO app_settings (highlight_context) VALUES ($1)
			 RETURNING id, highlight_context, created_at, updated_at`,
			highlightContext)
		return scanSettings(row)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE app_settings SET highlight_context = $2, updated_at = NOW() WHERE id = $1
		 RETURNING id, highlight_context, created_at, updated_at`,
		existing.ID, highlightContext)
	return scanSettings(row)
}

func (r *PostgresRepository) getSettings(ctx context.Context) (*repository.AppSettings, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, highlight_context, created_at, updated_at FROM app_settings LIMIT 1`)
	s, err := scanSettings(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanMeeting(row pgx.Row) (*repository.Meeting, error) {
	var m repository.Meeting
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Type, &m.Language,
		&m.Duration, &m.AudioKey, &m.Transcript, &m.Recap, &m.Highlights,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanSettings(row pgx.Row) (*repository.AppSettings, error) {
	var s repository.AppSettings
	if err := row.Scan(&s.ID, &s.HighlightContext, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
