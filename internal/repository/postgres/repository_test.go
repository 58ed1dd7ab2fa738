package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumecrafter/internal/domain"
	"resumecrafter/internal/domain/models"
	"resumecrafter/internal/domain/repositories"
	"resumecrafter/internal/repository/memory"
)

// storeRepos is one backend's set of repositories.
type storeRepos struct {
	chats   repositories.ChatRepository
	indexes repositories.UserChatIndexRepository
	prefs   repositories.UserPreferencesRepository
}

// testBackends returns the memory store and, when TEST_DATABASE_URL is
// set, Postgres tables under a throwaway prefix. Both must behave alike.
func testBackends(t *testing.T) map[string]storeRepos {
	t.Helper()

	mem := memory.NewStore()
	backends := map[string]storeRepos{
		"memory": {chats: mem.Chats(), indexes: mem.ChatIndexes(), prefs: mem.Preferences()},
	}

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		return backends
	}

	ctx := context.Background()
	pool, err := CreateConnectionPool(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prefix := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "_"
	cfg := &RepositoryConfig{Pool: pool, Tables: NewTableNames(prefix), Logger: logger}
	require.NoError(t, Migrate(ctx, cfg, NewTransactionManager(pool, logger)))

	t.Cleanup(func() {
		for _, table := range []string{cfg.Tables.Chats, cfg.Tables.UserChats, cfg.Tables.UserPreferences} {
			if _, err := pool.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
				t.Logf("drop %s: %v", table, err)
			}
		}
	})

	backends["postgres"] = storeRepos{
		chats:   NewChatRepository(cfg),
		indexes: NewUserChatIndexRepository(cfg),
		prefs:   NewUserPreferencesRepository(cfg),
	}
	return backends
}

func TestChatHistoryAppendOrder(t *testing.T) {
	for name, repos := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			chat := &models.ChatSession{
				UserID:  "user_a",
				History: []models.Turn{models.NewTextTurn(models.RoleUser, "first", "")},
			}
			require.NoError(t, repos.chats.Create(ctx, chat))
			require.NotEmpty(t, chat.ID)

			exchanges := [][]models.Turn{
				{
					models.NewTextTurn(models.RoleUser, "q1", "https://ik.imagekit.io/demo/1.png"),
					models.NewTextTurn(models.RoleAssistant, "a1", ""),
				},
				{models.NewTextTurn(models.RoleAssistant, "a2", "")},
			}
			for _, turns := range exchanges {
				res, err := repos.chats.AppendTurns(ctx, chat.ID, "user_a", turns)
				require.NoError(t, err)
				assert.True(t, res.Acknowledged)
				assert.EqualValues(t, 1, res.MatchedCount)
				assert.EqualValues(t, 1, res.ModifiedCount)
			}

			got, err := repos.chats.GetByIDForUser(ctx, chat.ID, "user_a")
			require.NoError(t, err)
			assert.Equal(t, "user_a", got.UserID)

			want := []models.Turn{
				{Role: models.RoleUser, Parts: []models.Part{{Text: "first"}}},
				{Role: models.RoleUser, Parts: []models.Part{{Text: "q1", Img: "https://ik.imagekit.io/demo/1.png"}}},
				{Role: models.RoleAssistant, Parts: []models.Part{{Text: "a1"}}},
				{Role: models.RoleAssistant, Parts: []models.Part{{Text: "a2"}}},
			}
			if diff := cmp.Diff(want, got.History); diff != "" {
				t.Errorf("history mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChatOwnershipFilter(t *testing.T) {
	for name, repos := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			chat := &models.ChatSession{
				UserID:  "owner",
				History: []models.Turn{models.NewTextTurn(models.RoleUser, "private", "")},
			}
			require.NoError(t, repos.chats.Create(ctx, chat))

			_, err := repos.chats.GetByIDForUser(ctx, chat.ID, "intruder")
			assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)

			res, err := repos.chats.AppendTurns(ctx, chat.ID, "intruder", []models.Turn{
				models.NewTextTurn(models.RoleAssistant, "injected", ""),
			})
			require.NoError(t, err)
			assert.True(t, res.Acknowledged)
			assert.Zero(t, res.MatchedCount)

			for _, id := range []string{"not-a-uuid", uuid.NewString()} {
				_, err := repos.chats.GetByIDForUser(ctx, id, "owner")
				assert.True(t, errors.Is(err, domain.ErrNotFound), "id %q: got %v", id, err)

				res, err := repos.chats.AppendTurns(ctx, id, "owner", []models.Turn{
					models.NewTextTurn(models.RoleAssistant, "lost", ""),
				})
				require.NoError(t, err)
				assert.True(t, res.Acknowledged)
				assert.Zero(t, res.MatchedCount)
			}

			got, err := repos.chats.GetByIDForUser(ctx, chat.ID, "owner")
			require.NoError(t, err)
			assert.Len(t, got.History, 1)
		})
	}
}

func TestChatIndexAppendSummary(t *testing.T) {
	for name, repos := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			missing, err := repos.indexes.GetByUserID(ctx, "user_a")
			require.NoError(t, err)
			assert.Nil(t, missing)

			for _, title := range []string{"one", "two", "three"} {
				require.NoError(t, repos.indexes.AppendSummary(ctx, "user_a", models.ChatSummary{
					ChatID: uuid.NewString(),
					Title:  title,
				}))
			}
			require.NoError(t, repos.indexes.AppendSummary(ctx, "user_b", models.ChatSummary{
				ChatID: uuid.NewString(),
				Title:  "other user",
			}))

			index, err := repos.indexes.GetByUserID(ctx, "user_a")
			require.NoError(t, err)
			require.NotNil(t, index)
			assert.Equal(t, "user_a", index.UserID)

			var titles []string
			for _, c := range index.Chats {
				titles = append(titles, c.Title)
			}
			if diff := cmp.Diff([]string{"one", "two", "three"}, titles); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPreferenceUpsert(t *testing.T) {
	for name, repos := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			none, err := repos.prefs.GetByUserID(ctx, "user_a")
			require.NoError(t, err)
			assert.Nil(t, none)

			for _, text := range []string{"first", "second"} {
				now := time.Now().UTC()
				require.NoError(t, repos.prefs.Upsert(ctx, &models.UserPreference{
					UserID:           "user_a",
					AdditionalPrompt: text,
					CreatedAt:        now,
					UpdatedAt:        now,
				}))
			}

			got, err := repos.prefs.GetByUserID(ctx, "user_a")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "second", got.AdditionalPrompt)
		})
	}
}
