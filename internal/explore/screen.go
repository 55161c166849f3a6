// Package explore is the controller of the explore screen. It owns the
// category selection, the fetched listings, the viewport and the sheet,
// and derives the Frame that the list and the map render.
//
// All state is mutated from Update, which runs on the bubbletea event
// loop. Fetches and the location request run as tea.Cmds and report back
// as messages tagged with the session that started them.
package explore

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mishannn/explore-go/internal/cluster"
	"github.com/mishannn/explore-go/internal/directory"
	"github.com/mishannn/explore-go/internal/geo"
	"github.com/mishannn/explore-go/internal/listing"
	"github.com/mishannn/explore-go/internal/location"
	"github.com/mishannn/explore-go/internal/sheet"
)

// Navigator opens the detail page of a listing.
type Navigator interface {
	NavigateToListingDetail(listingID string)
}

// clusterFitPadding and clusterFitMinDelta shape the viewport chosen when
// an aggregate marker is pressed.
const (
	clusterFitPadding  = 0.25
	clusterFitMinDelta = 0.0005
)

type Dependencies struct {
	Directory  directory.Client
	Geolocator location.Geolocator
	Navigator  Navigator
	Engine     *cluster.Engine
	Renderers  []Renderer

	LatitudeDelta  float64
	LongitudeDelta float64
}

type session struct {
	token  string
	lang   string
	ctx    context.Context
	cancel context.CancelFunc
}

type Screen struct {
	deps Dependencies

	selection *listing.SelectionState
	viewport  *location.Controller
	sheet     *sheet.Controller

	session *session

	listings          []listing.Listing
	categories        []listing.Category
	loadingListings   bool
	loadingCategories bool

	visible  []listing.Listing
	index    *cluster.Index
	clusters []cluster.Cluster
	onScreen []cluster.Cluster
	pass     int
	notices  []string

	frame Frame
}

func NewScreen(deps Dependencies) *Screen {
	if deps.Engine == nil {
		deps.Engine = cluster.NewEngine(cluster.DefaultOptions())
	}

	s := &Screen{
		deps:      deps,
		selection: listing.NewSelectionState(),
		viewport:  location.NewController(deps.LatitudeDelta, deps.LongitudeDelta),
		sheet:     sheet.NewController(),
	}
	s.selection.Observe(func(sel listing.Selection) {
		log.Debug().Str("category", sel.String()).Msg("Category selected")
		s.refilter()
	})
	s.refilter()

	return s
}

// Selection is the single owner of the active category. Consumers read it
// through Frame.Selection or Current.
func (s *Screen) Selection() *listing.SelectionState {
	return s.selection
}

func (s *Screen) Frame() Frame {
	return s.frame
}

// Start mounts the screen. It snaps the sheet to the list and returns the
// session token with a command running the listing fetch, the category
// fetch and the location request concurrently.
func (s *Screen) Start(lang string) (string, tea.Cmd) {
	if s.session != nil {
		return s.session.token, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.session = &session{
		token:  uuid.NewString(),
		lang:   lang,
		ctx:    ctx,
		cancel: cancel,
	}
	s.sheet.Mount()

	cmds := []tea.Cmd{s.fetchListings(), s.fetchCategories()}
	if s.viewport.Begin() && s.deps.Geolocator != nil {
		cmds = append(cmds, s.acquireLocation())
	}

	log.Info().Str("session", s.session.token).Str("lang", lang).Msg("Explore screen mounted")
	s.render()

	return s.session.token, tea.Batch(cmds...)
}

// OnDependencyChange refetches the directory for a new language. The same
// language, or a stopped screen, yields no command.
func (s *Screen) OnDependencyChange(lang string) tea.Cmd {
	if s.session == nil || s.session.lang == lang {
		return nil
	}

	log.Info().Str("from", s.session.lang).Str("to", lang).Msg("Language changed")
	s.session.lang = lang
	cmd := tea.Batch(s.fetchListings(), s.fetchCategories())
	s.render()

	return cmd
}

// Stop tears the session down. Pending operations are cancelled and their
// results are discarded when they arrive. A location request still in
// flight is reissued by the next Start.
func (s *Screen) Stop(token string) bool {
	if s.session == nil || s.session.token != token {
		return false
	}

	s.session.cancel()
	if s.viewport.Abort() {
		log.Debug().Msg("Location request abandoned")
	}
	s.sheet.Unmount()
	log.Info().Str("session", token).Msg("Explore screen unmounted")
	s.session = nil

	return true
}

// Mounted reports whether a session is active.
func (s *Screen) Mounted() bool {
	return s.session != nil
}

func (s *Screen) fetchListings() tea.Cmd {
	s.loadingListings = true
	ctx, token, lang, client := s.session.ctx, s.session.token, s.session.lang, s.deps.Directory

	return func() tea.Msg {
		items, err := client.FetchListings(ctx, lang)
		return listingsLoadedMsg{token: token, lang: lang, listings: items, err: err}
	}
}

func (s *Screen) fetchCategories() tea.Cmd {
	s.loadingCategories = true
	ctx, token, lang, client := s.session.ctx, s.session.token, s.session.lang, s.deps.Directory

	return func() tea.Msg {
		items, err := client.FetchCategories(ctx, lang)
		return categoriesLoadedMsg{token: token, lang: lang, categories: items, err: err}
	}
}

func (s *Screen) acquireLocation() tea.Cmd {
	ctx, token, geolocator := s.session.ctx, s.session.token, s.deps.Geolocator

	return func() tea.Msg {
		return locationResolvedMsg{token: token, result: location.Acquire(ctx, geolocator)}
	}
}

func (s *Screen) settleSheet() tea.Cmd {
	token := s.session.token

	return func() tea.Msg {
		return sheetSettledMsg{token: token}
	}
}

// current reports whether a result belongs to the live session.
func (s *Screen) current(token string) bool {
	return s.session != nil && s.session.token == token
}

// Update applies one message and returns follow-up work, if any.
func (s *Screen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case listingsLoadedMsg:
		s.handleListings(msg)
	case categoriesLoadedMsg:
		s.handleCategories(msg)
	case locationResolvedMsg:
		s.handleLocation(msg)
	case sheetSettledMsg:
		if s.current(msg.token) && s.sheet.Settle() {
			s.render()
		}
	}

	if s.session == nil {
		return nil
	}

	switch msg := msg.(type) {
	case CategorySelected:
		s.selection.Select(msg.Selection)
	case ViewportChanged:
		if s.viewport.Move(msg.Viewport) {
			s.recluster()
		}
	case RecenterRequested:
		if s.viewport.Recenter() {
			s.recluster()
		}
	case ListItemPressed:
		s.navigate(msg.ListingID, "list")
	case MarkerPressed:
		s.navigate(msg.ListingID, "map")
	case ClusterPressed:
		s.expandCluster(msg)
	case ShowMap:
		if s.sheet.ShowMap() {
			s.render()
			return s.settleSheet()
		}
	case ShowList:
		if s.sheet.ShowList() {
			s.render()
			return s.settleSheet()
		}
	case SheetDragged:
		if s.sheet.Drag(msg.Position) {
			s.render()
		}
	case LanguageChanged:
		return s.OnDependencyChange(msg.Lang)
	}

	return nil
}

func (s *Screen) handleListings(msg listingsLoadedMsg) {
	if !s.current(msg.token) || msg.lang != s.session.lang {
		log.Debug().Str("lang", msg.lang).Msg("Discarding stale listings")
		return
	}

	s.loadingListings = false
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("lang", msg.lang).Msg("Can't load listings, showing none")
		s.listings = nil
	} else {
		log.Info().Int("count", len(msg.listings)).Str("lang", msg.lang).Msg("Listings loaded")
		s.listings = msg.listings
	}

	s.refilter()
}

func (s *Screen) handleCategories(msg categoriesLoadedMsg) {
	if !s.current(msg.token) || msg.lang != s.session.lang {
		log.Debug().Str("lang", msg.lang).Msg("Discarding stale categories")
		return
	}

	s.loadingCategories = false
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("lang", msg.lang).Msg("Can't load categories, showing none")
		s.categories = nil
	} else {
		s.categories = msg.categories
	}

	s.render()
}

func (s *Screen) handleLocation(msg locationResolvedMsg) {
	if !s.current(msg.token) {
		log.Debug().Msg("Discarding stale location result")
		return
	}

	s.viewport.Resolve(msg.result)
	if msg.result.Err != nil {
		log.Warn().Err(msg.result.Err).Str("state", s.viewport.State().String()).Msg("Map opened without device location")
		s.notices = append(s.notices, s.viewport.Notice())
	} else {
		log.Info().Str("fix", msg.result.Fix.String()).Msg("Device location acquired")
	}

	s.recluster()
}

func (s *Screen) navigate(id string, source string) {
	if s.deps.Navigator == nil {
		return
	}

	for _, l := range s.listings {
		if l.ID == id {
			log.Debug().Str("listing", id).Str("source", source).Msg("Opening listing detail")
			s.deps.Navigator.NavigateToListingDetail(id)
			return
		}
	}

	log.Debug().Str("listing", id).Str("source", source).Msg("Ignoring press on unknown listing")
}

// expandCluster zooms to the members of an aggregate. A leaf opens its listing.
func (s *Screen) expandCluster(msg ClusterPressed) {
	if msg.Pass != s.pass {
		log.Debug().Int("pass", msg.Pass).Int("current", s.pass).Msg("Ignoring press on cluster from an old render")
		return
	}

	c, ok := s.frame.Cluster(msg.ClusterID)
	if !ok {
		return
	}
	if c.IsLeaf() {
		s.navigate(c.Listing.ID, "map")
		return
	}

	corners := []geo.Coordinates{
		{Lat: c.Bbox.Min[1], Lng: c.Bbox.Min[0]},
		{Lat: c.Bbox.Max[1], Lng: c.Bbox.Max[0]},
	}
	v, err := geo.Fit(corners, clusterFitPadding, clusterFitMinDelta)
	if err != nil {
		log.Debug().Err(err).Msg("Can't fit cluster")
		return
	}

	if s.viewport.Move(v) {
		s.recluster()
	}
}

// refilter derives the visible listings from the selection and rebuilds
// the cluster index.
func (s *Screen) refilter() {
	s.visible = listing.Filter(s.listings, s.selection.Current())
	s.index = s.deps.Engine.Index(s.visible)
	s.recluster()
}

// recluster recomputes markers for the current viewport.
func (s *Screen) recluster() {
	s.pass++
	s.clusters = nil
	s.onScreen = nil

	if v, ok := s.viewport.Viewport(); ok && s.index != nil {
		s.clusters = s.index.Clusters(v)

		region := v.Region()
		for _, c := range s.clusters {
			if region.Contains(c.Center) {
				s.onScreen = append(s.onScreen, c)
			}
		}
	}

	s.render()
}

func (s *Screen) render() {
	v, hasViewport := s.viewport.Viewport()
	_, pending := s.sheet.Pending()

	lang := ""
	if s.session != nil {
		lang = s.session.lang
	}

	s.frame = Frame{
		Pass:              s.pass,
		Lang:              lang,
		Selection:         s.selection.Current(),
		Categories:        s.categories,
		Visible:           s.visible,
		LoadingListings:   s.loadingListings,
		LoadingCategories: s.loadingCategories,
		Viewport:          v,
		HasViewport:       hasViewport,
		LocationState:     s.viewport.State(),
		Clusters:          s.clusters,
		OnScreen:          s.onScreen,
		Sheet:             s.sheet.Position(),
		SheetPending:      pending,
		Notices:           append([]string(nil), s.notices...),
	}

	for _, r := range s.deps.Renderers {
		r.Render(s.frame)
	}
}
