// Package app wires the hub client, state store and view projector
// together and exposes the actions the presentation layer calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ulilicht/Musikbar/internal/client"
	"github.com/ulilicht/Musikbar/internal/settings"
	"github.com/ulilicht/Musikbar/internal/state"
	"github.com/ulilicht/Musikbar/internal/view"
	"github.com/ulilicht/Musikbar/pkg/maapi"
)

// ErrSetupRequired is returned by Run until a server URL and token
// are configured.
var ErrSetupRequired = errors.New("server url and token not configured")

// ErrNoZone is returned by actions that need a selected zone before
// any zone exists.
var ErrNoZone = errors.New("no zone selected")

// volumeDebounce collapses slider drags into a single volume_set.
const volumeDebounce = 150 * time.Millisecond

// App owns one client lifecycle and the derived presentation state.
type App struct {
	log       *zap.Logger
	settings  *settings.Store
	zoneState *settings.ZoneState
	store     *state.Store
	onUpdate  func()

	// Zero values take the client contract defaults. Tests shorten
	// these before Run.
	RequestTimeout time.Duration
	ReconnectDelay time.Duration

	mu             sync.Mutex
	cfg            settings.Settings
	cl             *client.Client
	clientCancel   context.CancelFunc
	runCtx         context.Context
	ready          bool
	autoSelected   bool
	selectedZoneID string
	snapshot       state.Snapshot
	zones          []view.Zone
	nowPlaying     view.NowPlaying
	favourites     []view.Favourite

	readyCh   chan struct{}
	readyOnce sync.Once

	volMu    sync.Mutex
	volTimer *time.Timer
	volLevel int
}

// New creates an app. onUpdate, if set, is invoked after every change
// to the derived state so the presentation layer can re-render.
func New(log *zap.Logger, store *settings.Store, zoneState *settings.ZoneState, onUpdate func()) *App {
	a := &App{
		log:       log,
		settings:  store,
		zoneState: zoneState,
		store:     state.NewStore(log),
		onUpdate:  onUpdate,
		readyCh:   make(chan struct{}),
	}
	a.store.OnChange(a.handleState)
	return a
}

// Run loads the settings, starts the connection supervisor and begins
// watching the settings file. It returns once everything is started;
// the supervisor keeps reconnecting until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.settings.Load()
	if err != nil {
		return err
	}
	if cfg.ServerURL == "" || cfg.Token == "" {
		return ErrSetupRequired
	}

	a.mu.Lock()
	a.cfg = cfg
	a.runCtx = ctx
	a.mu.Unlock()

	a.startClient(ctx, cfg)

	if err := a.settings.Watch(ctx, a.applySettings); err != nil {
		a.log.Warn("settings watch unavailable", zap.Error(err))
	}
	return nil
}

func (a *App) startClient(parent context.Context, cfg settings.Settings) {
	clientCtx, cancel := context.WithCancel(parent)
	cl := client.New(client.Options{
		ServerURL:      cfg.ServerURL,
		Token:          cfg.Token,
		Logger:         a.log,
		Sink:           a.store,
		OnReady:        a.handleReady,
		RequestTimeout: a.RequestTimeout,
		ReconnectDelay: a.ReconnectDelay,
	})

	a.mu.Lock()
	a.cl = cl
	a.clientCancel = cancel
	a.mu.Unlock()

	go cl.Run(clientCtx)
}

// applySettings reacts to a settings file change: a new URL or token
// forces a fresh connection, a new favourites source reloads the
// strip.
func (a *App) applySettings(cfg settings.Settings) {
	a.mu.Lock()
	prev := a.cfg
	a.cfg = cfg
	reconnect := cfg.ServerURL != prev.ServerURL || cfg.Token != prev.Token
	reloadFavourites := cfg.FavouritesSource != prev.FavouritesSource
	cancel := a.clientCancel
	parent := a.runCtx
	a.mu.Unlock()

	switch {
	case reconnect:
		a.log.Info("connection settings changed, reconnecting")
		if cancel != nil {
			cancel()
		}
		if cfg.ServerURL != "" && cfg.Token != "" {
			a.startClient(parent, cfg)
		}
	case reloadFavourites:
		a.loadFavourites()
	}
	a.notifyUpdate()
}

func (a *App) handleReady(ready bool) {
	a.mu.Lock()
	a.ready = ready
	a.mu.Unlock()

	if ready {
		a.readyOnce.Do(func() { close(a.readyCh) })
		go a.loadFavourites()
	}
	a.notifyUpdate()
}

// handleState recomputes the derived view after every store change.
// Zone auto-selection runs until a zone is selectable and again
// whenever the current selection disappears.
func (a *App) handleState(snap state.Snapshot) {
	persisted, err := a.zoneState.SelectedZoneName()
	if err != nil {
		a.log.Warn("zone state unreadable", zap.Error(err))
		persisted = ""
	}

	zones := view.MapZones(snap.Players)
	var persistName string

	a.mu.Lock()
	a.snapshot = snap
	a.zones = zones
	if !a.autoSelected || !zoneExists(zones, a.selectedZoneID) {
		if z, ok := view.AutoSelect(zones, persisted); ok {
			a.autoSelected = true
			a.selectedZoneID = z.ID
			persistName = z.Name
		}
	}
	a.recomputeNowPlayingLocked()
	a.mu.Unlock()

	if persistName != "" {
		if err := a.zoneState.SetSelectedZoneName(persistName); err != nil {
			a.log.Warn("persisting zone selection failed", zap.Error(err))
		}
	}
	a.notifyUpdate()
}

func (a *App) recomputeNowPlayingLocked() {
	a.nowPlaying = view.NowPlaying{}
	if a.selectedZoneID == "" {
		return
	}
	for _, p := range a.snapshot.Players {
		if p.PlayerID == a.selectedZoneID {
			a.nowPlaying = view.DeriveNowPlaying(p, view.FindQueue(a.snapshot.Queues, p.PlayerID))
			return
		}
	}
}

func (a *App) loadFavourites() {
	a.mu.Lock()
	cfg := a.cfg
	cl := a.cl
	a.mu.Unlock()
	if cl == nil {
		return
	}

	items, err := fetchFavourites(context.Background(), cl, cfg.FavouritesSource)
	if err != nil {
		// A failed fetch degrades to an empty strip, never an error
		// surfaced to the menu.
		a.log.Warn("favourites fetch failed",
			zap.String("source", cfg.FavouritesSource), zap.Error(err))
		items = nil
	}
	favourites := view.MapFavourites(items, cfg.ServerURL)

	a.mu.Lock()
	a.favourites = favourites
	a.mu.Unlock()
	a.notifyUpdate()
}

func fetchFavourites(ctx context.Context, cl *client.Client, source string) ([]maapi.MediaItem, error) {
	switch source {
	case settings.SourceRadio:
		return cl.Radios(ctx, client.FavouritesLimit)
	case settings.SourceFavoritesPlaylist:
		return cl.Playlists(ctx, client.FavouritesLimit)
	case settings.SourceRandomArtist:
		return cl.Artists(ctx, client.FavouritesLimit)
	default:
		return cl.RecentlyPlayed(ctx, client.FavouritesLimit)
	}
}

// WaitReady blocks until the first successful auth and bootstrap.
func (a *App) WaitReady(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.readyCh:
		return nil
	}
}

// Ready reports whether the connection is authenticated and
// bootstrapped.
func (a *App) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// Zones returns the current zone list in sorted order.
func (a *App) Zones() []view.Zone {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]view.Zone, len(a.zones))
	copy(out, a.zones)
	return out
}

// SelectedZoneID returns the id of the selected zone, empty when none
// is selected yet.
func (a *App) SelectedZoneID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedZoneID
}

// NowPlaying returns the derived record for the selected zone.
func (a *App) NowPlaying() view.NowPlaying {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nowPlaying
}

// Favourites returns the current favourites strip.
func (a *App) Favourites() []view.Favourite {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]view.Favourite, len(a.favourites))
	copy(out, a.favourites)
	return out
}

// SetZone selects a zone by id and persists its name.
func (a *App) SetZone(zoneID string) error {
	a.mu.Lock()
	var name string
	found := false
	for _, z := range a.zones {
		if z.ID == zoneID {
			name = z.Name
			found = true
			break
		}
	}
	if !found {
		a.mu.Unlock()
		return fmt.Errorf("unknown zone %q", zoneID)
	}
	a.selectedZoneID = zoneID
	a.autoSelected = true
	a.recomputeNowPlayingLocked()
	a.mu.Unlock()

	if err := a.zoneState.SetSelectedZoneName(name); err != nil {
		a.log.Warn("persisting zone selection failed", zap.Error(err))
	}
	a.notifyUpdate()
	return nil
}

// SetZoneByName selects a zone by its display name.
func (a *App) SetZoneByName(name string) error {
	a.mu.Lock()
	id := ""
	for _, z := range a.zones {
		if z.Name == name {
			id = z.ID
			break
		}
	}
	a.mu.Unlock()
	if id == "" {
		return fmt.Errorf("unknown zone %q", name)
	}
	return a.SetZone(id)
}

// SetVolume schedules a debounced volume commit for the selected
// zone.
func (a *App) SetVolume(level int) {
	a.volMu.Lock()
	a.volLevel = level
	if a.volTimer == nil {
		a.volTimer = time.AfterFunc(volumeDebounce, a.commitVolume)
	} else {
		a.volTimer.Reset(volumeDebounce)
	}
	a.volMu.Unlock()
}

// SetVolumeNow commits a volume level immediately, bypassing the
// debounce. One-shot callers use this.
func (a *App) SetVolumeNow(ctx context.Context, level int) error {
	cl, zone := a.clientAndZone()
	if cl == nil || zone == "" {
		return ErrNoZone
	}
	return cl.SetVolume(ctx, zone, level)
}

func (a *App) commitVolume() {
	a.volMu.Lock()
	level := a.volLevel
	a.volMu.Unlock()

	cl, zone := a.clientAndZone()
	if cl == nil || zone == "" {
		return
	}
	if err := cl.SetVolume(context.Background(), zone, level); err != nil {
		a.log.Warn("volume_set failed", zap.Error(err))
	}
}

// ToggleMute flips the mute flag of the selected zone.
func (a *App) ToggleMute(ctx context.Context) error {
	a.mu.Lock()
	cl := a.cl
	zone := a.selectedZoneID
	muted := a.nowPlaying.IsMuted
	a.mu.Unlock()
	if cl == nil || zone == "" {
		return ErrNoZone
	}
	return cl.SetMute(ctx, zone, !muted)
}

// PlayPause toggles playback of the selected zone.
func (a *App) PlayPause(ctx context.Context) error {
	cl, zone := a.clientAndZone()
	if cl == nil || zone == "" {
		return ErrNoZone
	}
	return cl.PlayPause(ctx, zone)
}

// Next skips the selected zone to the next item.
func (a *App) Next(ctx context.Context) error {
	cl, zone := a.clientAndZone()
	if cl == nil || zone == "" {
		return ErrNoZone
	}
	return cl.Next(ctx, zone)
}

// Previous skips the selected zone back one item.
func (a *App) Previous(ctx context.Context) error {
	cl, zone := a.clientAndZone()
	if cl == nil || zone == "" {
		return ErrNoZone
	}
	return cl.Previous(ctx, zone)
}

// PlayFavourite plays a favourite on the selected zone. The full hub
// item is passed through when available so albums and playlists
// expand server-side.
func (a *App) PlayFavourite(ctx context.Context, id string) error {
	a.mu.Lock()
	var fav *view.Favourite
	for i := range a.favourites {
		if a.favourites[i].ID == id || a.favourites[i].URI == id {
			fav = &a.favourites[i]
			break
		}
	}
	cl := a.cl
	zone := a.selectedZoneID
	a.mu.Unlock()

	if cl == nil || zone == "" {
		return ErrNoZone
	}
	if fav == nil {
		// A raw URI plays without a strip entry.
		if strings.Contains(id, "://") {
			return cl.PlayMedia(ctx, zone, id)
		}
		return fmt.Errorf("unknown favourite %q", id)
	}
	var media any = fav.URI
	if len(fav.Raw) > 0 {
		media = fav.Raw
	}
	return cl.PlayMedia(ctx, zone, media)
}

// ChangeFavouritesSource persists the new source and reloads the
// strip.
func (a *App) ChangeFavouritesSource(source string) error {
	if _, err := a.settings.Update(func(s *settings.Settings) {
		s.FavouritesSource = source
	}); err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg.FavouritesSource = source
	a.mu.Unlock()
	a.loadFavourites()
	return nil
}

// FavouritesFor fetches the strip for a one-off source without
// persisting it.
func (a *App) FavouritesFor(ctx context.Context, source string) ([]view.Favourite, error) {
	a.mu.Lock()
	cl := a.cl
	serverURL := a.cfg.ServerURL
	a.mu.Unlock()
	if cl == nil {
		return nil, ErrNoZone
	}
	items, err := fetchFavourites(ctx, cl, source)
	if err != nil {
		return nil, err
	}
	return view.MapFavourites(items, serverURL), nil
}

func (a *App) clientAndZone() (*client.Client, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cl, a.selectedZoneID
}

func (a *App) notifyUpdate() {
	if a.onUpdate != nil {
		a.onUpdate()
	}
}

func zoneExists(zones []view.Zone, id string) bool {
	if id == "" {
		return false
	}
	for _, z := range zones {
		if z.ID == id {
			return true
		}
	}
	return false
}
