package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/tracing"
)

// Repo stores programs and completed workouts as JSONB documents,
// keyed by id and owner.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddProgram(ctx context.Context, program Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	if program.CreatedAt.IsZero() {
		program.CreatedAt = time.Now().UTC()
	}
	span.SetAttributes(attribute.String("program.id", program.ID))

	data, err := json.Marshal(program)
	if err != nil {
		return nil, fmt.Errorf("marshal program: %w", err)
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO workouts (id, owner_id, data, created_at) VALUES ($1, $2, $3, $4);`,
		program.ID, program.OwnerID, data, program.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &program, nil
}

func (r *Repo) GetProgram(ctx context.Context, id, ownerID string) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", id))

	var data []byte
	if err := r.db.QueryRow(
		ctx,
		`SELECT data FROM workouts WHERE id = $1 AND owner_id = $2;`,
		id, ownerID,
	).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	var program Program
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("unmarshal program %s: %w", id, err)
	}
	program.ID = id
	program.OwnerID = ownerID

	return &program, nil
}

func (r *Repo) ListPrograms(ctx context.Context, ownerID string) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listPrograms")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, data FROM workouts WHERE owner_id = $1 ORDER BY created_at DESC;`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]Program, 0)
	for rows.Next() {
		var id uuid.UUID
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		var program Program
		if err := json.Unmarshal(data, &program); err != nil {
			return nil, fmt.Errorf("unmarshal program %s: %w", id, err)
		}
		program.ID = id.String()
		program.OwnerID = ownerID
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("programs.count", len(programs)))
	return programs, nil
}

// UpdateProgram replaces the stored program document. Id, owner and creation
// time are never changed.
func (r *Repo) UpdateProgram(ctx context.Context, program *Program) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.updateProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", program.ID))

	data, err := json.Marshal(program)
	if err != nil {
		return fmt.Errorf("marshal program: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workouts
			SET data = $1::jsonb || jsonb_build_object('createdAt', data->'createdAt')
			WHERE id = $2 AND owner_id = $3;`,
		data, program.ID, program.OwnerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}

	return nil
}

func (r *Repo) SetProgramCompleted(ctx context.Context, id, ownerID string, completed bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setProgramCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", id), attribute.Bool("completed", completed))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workouts SET data = jsonb_set(data, '{completed}', to_jsonb($1::boolean))
			WHERE id = $2 AND owner_id = $3;`,
		completed, id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}

	return nil
}

func (r *Repo) DeleteProgram(ctx context.Context, id, ownerID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteProgram")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("program.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workouts WHERE id = $1 AND owner_id = $2;`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *Repo) AddCompletedWorkout(ctx context.Context, workout CompletedWorkout) (_ *CompletedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	if workout.CompletedAt.IsZero() {
		workout.CompletedAt = time.Now().UTC()
	}
	span.SetAttributes(attribute.String("completed_workout.id", workout.ID))

	data, err := json.Marshal(workout)
	if err != nil {
		return nil, fmt.Errorf("marshal completed workout: %w", err)
	}

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO completed_workouts (id, owner_id, data, completed_at) VALUES ($1, $2, $3, $4);`,
		workout.ID, workout.OwnerID, data, workout.CompletedAt,
	); err != nil {
		return nil, err
	}

	return &workout, nil
}

// ListCompletedWorkouts returns all completed workouts of the owner, oldest first.
func (r *Repo) ListCompletedWorkouts(ctx context.Context, ownerID string) (_ []CompletedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, data FROM completed_workouts WHERE owner_id = $1 ORDER BY completed_at ASC;`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make([]CompletedWorkout, 0)
	for rows.Next() {
		var id uuid.UUID
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		var cw CompletedWorkout
		if err := json.Unmarshal(data, &cw); err != nil {
			return nil, fmt.Errorf("unmarshal completed workout %s: %w", id, err)
		}
		cw.ID = id.String()
		cw.OwnerID = ownerID
		completed = append(completed, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("completed_workouts.count", len(completed)))
	return completed, nil
}
