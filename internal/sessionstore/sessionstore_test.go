package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomify/bloomify/internal/evaluator"
	"github.com/bloomify/bloomify/internal/progression"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	st, err := progression.New(3)
	require.NoError(t, err)

	q := evaluator.Signature{Kind: evaluator.KindDescriptive, Text: "What is a loop?", Topic: "loops", Keywords: []string{"repeat", "condition"}}
	st = st.WithIssued(q.Text, q.Topic)
	st, _, err = st.Apply(progression.Record{
		Question: q,
		Response: "a loop repeats while a condition holds",
		Result:   evaluator.Evaluate("a loop repeats while a condition holds", q),
		Topic:    q.Topic,
	})
	require.NoError(t, err)

	return &Session{
		ID:            "attempt-1",
		LearnerID:     "ada",
		SyllabusTitle: "Loops",
		Syllabus:      "Loops repeat work.",
		Kind:          evaluator.KindDescriptive,
		State:         st,
		Pending:       &evaluator.Signature{Kind: evaluator.KindDescriptive, Text: "Why use a loop?", Keywords: []string{"repeat"}},
		StartedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func assertSameSession(t *testing.T, want, got *Session) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.LearnerID, got.LearnerID)
	assert.Equal(t, want.Syllabus, got.Syllabus)
	assert.Equal(t, want.Kind, got.Kind)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, want.Pending, got.Pending)
	assert.Equal(t, want.State.Answered(), got.State.Answered())
	assert.Equal(t, want.State.CorrectCount(), got.State.CorrectCount())
	assert.Equal(t, want.State.LevelIndex(), got.State.LevelIndex())
	assert.Equal(t, want.State.Asked(), got.State.Asked())
	assert.Equal(t, want.State.Topics(), got.State.Topics())
	assert.Len(t, got.State.History(), len(want.State.History()))
}

func TestCodec_RoundTrip(t *testing.T) {
	s := testSession(t)
	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format":"v1.0.0"`)

	got, err := Decode(data)
	require.NoError(t, err)
	assertSameSession(t, s, got)
}

func TestCodec_Incompatible(t *testing.T) {
	s := testSession(t)
	body, err := json.Marshal(s)
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"newer major", `{"format":"v2.0.0","session":` + string(body) + `}`},
		{"invalid version", `{"format":"1.0","session":` + string(body) + `}`},
		{"missing version", `{"session":` + string(body) + `}`},
		{"not json", `not json`},
		{"broken state", `{"format":"v1.0.0","session":{"id":"x","state":{"questions_per_level":0}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrIncompatible)
		})
	}

	_, err = Decode([]byte(`{"format":"v1.4.2","session":` + string(body) + `}`))
	assert.NoError(t, err, "minor versions are compatible")
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	s := testSession(t)

	_, err := m.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save(ctx, s))
	got, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assertSameSession(t, s, got)

	// Mutating the loaded copy does not touch the stored one.
	got.LearnerID = "someone else"
	again, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", again.LearnerID)

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour)
	m.now = func() time.Time { return now }

	s := testSession(t)
	require.NoError(t, m.Save(ctx, s))

	now = now.Add(59 * time.Minute)
	_, err := m.Load(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = m.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestRedis_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db, 2*time.Hour)
	ctx := context.Background()
	s := testSession(t)

	data, err := Encode(s)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet("bloomify:session:attempt-1", string(data), 2*time.Hour).SetVal("OK")
		assert.NoError(t, store.Save(ctx, s))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectSet("bloomify:session:attempt-1", string(data), 2*time.Hour).SetErr(redisErr)
		assert.ErrorIs(t, store.Save(ctx, s), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db, time.Hour)
	ctx := context.Background()
	s := testSession(t)

	data, err := Encode(s)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet("bloomify:session:attempt-1").SetVal(string(data))
		got, err := store.Load(ctx, "attempt-1")
		require.NoError(t, err)
		assertSameSession(t, s, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectGet("bloomify:session:gone").SetErr(redis.Nil)
		_, err := store.Load(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Incompatible", func(t *testing.T) {
		mock.ExpectGet("bloomify:session:old").SetVal(`{"format":"v0.9.0","session":{}}`)
		_, err := store.Load(ctx, "old")
		assert.ErrorIs(t, err, ErrIncompatible)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("timeout")
		mock.ExpectGet("bloomify:session:attempt-1").SetErr(redisErr)
		_, err := store.Load(ctx, "attempt-1")
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedis_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedis(db, time.Hour)
	ctx := context.Background()

	mock.ExpectDel("bloomify:session:attempt-1").SetVal(1)
	assert.NoError(t, store.Delete(ctx, "attempt-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisClient_EmptyAddress(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "", "", 0)
	assert.Error(t, err)
}
