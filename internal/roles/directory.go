package roles

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"listabot/internal/domain"
	"listabot/internal/models"

	"github.com/rs/zerolog"
)

const cacheTTL = 5 * time.Minute

// Directory answers authorization questions from two role tabs of the
// backing spreadsheet merged with IDs pinned in configuration. Tab
// entries carry a display name used for owner tags; config IDs do not.
// Lookups serve a cached snapshot refreshed at most every five minutes,
// so a revoked user can keep a session for that long.
type Directory struct {
	usersTab  domain.RowStore
	adminsTab domain.RowStore
	cfgUsers  map[int64]string
	cfgAdmins map[int64]string
	logger    *zerolog.Logger

	mu       sync.RWMutex
	users    map[int64]string
	admins   map[int64]string
	loadedAt time.Time
}

// New builds a directory. Either tab may be nil (CSV deployments have
// no role tabs); then only the configured IDs apply.
func New(usersTab, adminsTab domain.RowStore, userIDs, adminIDs []int64, logger *zerolog.Logger) *Directory {
	d := &Directory{
		usersTab:  usersTab,
		adminsTab: adminsTab,
		cfgUsers:  make(map[int64]string, len(userIDs)),
		cfgAdmins: make(map[int64]string, len(adminIDs)),
		logger:    logger,
		users:     make(map[int64]string),
		admins:    make(map[int64]string),
	}
	for _, id := range userIDs {
		d.cfgUsers[id] = ""
	}
	for _, id := range adminIDs {
		d.cfgAdmins[id] = ""
	}
	return d
}

// Refresh reloads both tabs unconditionally.
func (d *Directory) Refresh(ctx context.Context) error {
	users, err := loadTab(ctx, d.usersTab)
	if err != nil {
		return err
	}
	admins, err := loadTab(ctx, d.adminsTab)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.users = users
	d.admins = admins
	d.loadedAt = time.Now()
	d.mu.Unlock()
	return nil
}

func (d *Directory) refreshIfStale(ctx context.Context) {
	d.mu.RLock()
	stale := time.Since(d.loadedAt) > cacheTTL
	d.mu.RUnlock()
	if !stale {
		return
	}
	if err := d.Refresh(ctx); err != nil {
		// keep serving the last snapshot
		d.logger.Warn().Err(err).Msg("role tabs refresh failed")
		d.mu.Lock()
		d.loadedAt = time.Now()
		d.mu.Unlock()
	}
}

func (d *Directory) IsAllowed(ctx context.Context, userID int64) bool {
	if _, ok := d.cfgUsers[userID]; ok {
		return true
	}
	if _, ok := d.cfgAdmins[userID]; ok {
		return true
	}
	d.refreshIfStale(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.users[userID]; ok {
		return true
	}
	_, ok := d.admins[userID]
	return ok
}

func (d *Directory) IsAdmin(ctx context.Context, userID int64) bool {
	if _, ok := d.cfgAdmins[userID]; ok {
		return true
	}
	d.refreshIfStale(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.admins[userID]
	return ok
}

// DisplayName returns the name recorded for the user in a role tab, or
// "" when none is known; callers fall back to the Telegram identity.
func (d *Directory) DisplayName(ctx context.Context, userID int64) string {
	d.refreshIfStale(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if name := d.admins[userID]; name != "" {
		return name
	}
	return d.users[userID]
}

func (d *Directory) Users(ctx context.Context) ([]models.RoleEntry, error) {
	return d.entries(ctx, false)
}

func (d *Directory) Admins(ctx context.Context) ([]models.RoleEntry, error) {
	return d.entries(ctx, true)
}

func (d *Directory) entries(ctx context.Context, admin bool) ([]models.RoleEntry, error) {
	if err := d.Refresh(ctx); err != nil {
		return nil, err
	}

	d.mu.RLock()
	src := d.users
	if admin {
		src = d.admins
	}
	out := make([]models.RoleEntry, 0, len(src))
	for id, name := range src {
		out = append(out, models.RoleEntry{UserID: id, Name: name})
	}
	d.mu.RUnlock()
	return out, nil
}

func (d *Directory) AddUser(ctx context.Context, e models.RoleEntry, admin bool) error {
	tab := d.tab(admin)
	if tab == nil {
		return domain.ErrStoreUnavailable
	}
	if err := tab.AppendRow(ctx, []string{strconv.FormatInt(e.UserID, 10), e.Name}); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// RemoveUser rewrites the tab without the user's rows.
func (d *Directory) RemoveUser(ctx context.Context, userID int64, admin bool) error {
	tab := d.tab(admin)
	if tab == nil {
		return domain.ErrStoreUnavailable
	}

	raw, err := tab.ReadAll(ctx)
	if err != nil {
		return err
	}

	var kept [][]string
	for i, row := range raw {
		if i == 0 {
			continue
		}
		if id, ok := parseID(row[0]); ok && id == userID {
			continue
		}
		kept = append(kept, row)
	}
	if err := tab.OverwriteAll(ctx, kept); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

func (d *Directory) tab(admin bool) domain.RowStore {
	if admin {
		return d.adminsTab
	}
	return d.usersTab
}

func loadTab(ctx context.Context, tab domain.RowStore) (map[int64]string, error) {
	out := make(map[int64]string)
	if tab == nil {
		return out, nil
	}

	raw, err := tab.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i, row := range raw {
		if i == 0 || len(row) == 0 {
			continue
		}
		id, ok := parseID(row[0])
		if !ok {
			continue
		}
		name := ""
		if len(row) > 1 {
			name = strings.TrimSpace(row[1])
		}
		out[id] = name
	}
	return out, nil
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
