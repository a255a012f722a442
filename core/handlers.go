package core

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handlers interface {
	GetAuth(gctx *gin.Context)
	PostAuth(gctx *gin.Context)
	PostLogout(gctx *gin.Context)
	GetCalendar(gctx *gin.Context)
	PostEvent(gctx *gin.Context)
	PatchEvent(gctx *gin.Context)
	DeleteEvent(gctx *gin.Context)
	GetTable(gctx *gin.Context)
}

type handlers struct {
	api      API
	sessions *Sessions
}

func NewHandlers(api API, sessions *Sessions) Handlers {
	return &handlers{api: api, sessions: sessions}
}

type authPage struct {
	Signup      bool
	Username    string
	Errors      FieldErrors
	SubmitError string
}

type calendarPage struct {
	Authenticated bool
	Error         string
	Entries       []Entry
	EntriesJSON   template.JS
}

type tableRow struct {
	Id          int
	Title       string
	Description string
	Start       string
	End         string
}

type tablePage struct {
	Authenticated bool
	Error         string
	Heading       string
	Rows          []tableRow
}

func (h *handlers) GetAuth(gctx *gin.Context) {
	gctx.HTML(http.StatusOK, "auth.tmpl", authPage{Signup: isSignup(gctx)})
}

// PostAuth handles both login and signup submissions; the route decides
// the mode. Validation failures render per-field messages and never
// reach the network; API failures keep the entered username.
func (h *handlers) PostAuth(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	signup := isSignup(gctx)

	var creds Credentials

	err := gctx.ShouldBind(&creds)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind auth form")
		gctx.HTML(http.StatusBadRequest, "auth.tmpl", authPage{Signup: signup})

		return
	}

	fieldErrors := ValidateCredentials(creds)
	if fieldErrors != nil {
		gctx.HTML(http.StatusBadRequest, "auth.tmpl", authPage{
			Signup:   signup,
			Username: creds.Username,
			Errors:   fieldErrors,
		})

		return
	}

	exchange := h.api.Login
	if signup {
		exchange = h.api.Register
	}

	token, err := exchange(ctx, creds.Username, creds.Password)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Bool("signup", signup).Msg("authentication failed")
		gctx.HTML(http.StatusUnauthorized, "auth.tmpl", authPage{
			Signup:      signup,
			Username:    creds.Username,
			SubmitError: err.Error(),
		})

		return
	}

	h.sessions.Write(gctx.Writer, token)
	gctx.Redirect(http.StatusSeeOther, "/calendar")
}

func (h *handlers) PostLogout(gctx *gin.Context) {
	h.sessions.Clear(gctx.Writer)
	gctx.Redirect(http.StatusSeeOther, "/")
}

// GetCalendar fans out the three category fetches and renders the
// merged list. Any fetch failure yields the error state with no
// partial data.
func (h *handlers) GetCalendar(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	session, ok := SessionFrom(gctx)
	if !ok {
		gctx.Redirect(http.StatusFound, "/")
		return
	}

	entries, err := FetchAllEvents(ctx, h.api, session)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to fetch events")
		gctx.HTML(http.StatusBadGateway, "calendar.tmpl", calendarPage{
			Authenticated: true,
			Error:         "Error loading events: " + err.Error(),
		})

		return
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to encode entries")
		gctx.HTML(http.StatusInternalServerError, "calendar.tmpl", calendarPage{
			Authenticated: true,
			Error:         "Error loading events: " + err.Error(),
		})

		return
	}

	gctx.HTML(http.StatusOK, "calendar.tmpl", calendarPage{
		Authenticated: true,
		Entries:       entries,
		EntriesJSON:   template.JS(payload),
	})
}

// PostEvent is the creation modal submit: apply the end defaults, then
// proxy the create call.
func (h *handlers) PostEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	session, ok := SessionFrom(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("no session", ErrNoSession))
		return
	}

	var draft EventDraft

	err := gctx.ShouldBindJSON(&draft)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("failed to bind JSON", err))

		return
	}

	patch, err := draft.Resolve()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("event validation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(err.Error()))

		return
	}

	created, err := h.api.CreateEvent(ctx, session, patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("event creation failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(err.Error()))

		return
	}

	gctx.JSON(http.StatusCreated, created)
}

// PatchEvent is the details modal save. The reply is the denormalized
// entry so the page can do its replace-by-id without a refetch.
func (h *handlers) PatchEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	session, ok := SessionFrom(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("no session", ErrNoSession))
		return
	}

	id, err := strconv.Atoi(gctx.Param("id"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid event id")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid event id", err))

		return
	}

	var patch EventPatch

	err = gctx.ShouldBindJSON(&patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusInternalServerError, NewError("failed to bind JSON", err))

		return
	}

	updated, err := h.api.UpdateEvent(ctx, session, id, patch)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("event update failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(err.Error()))

		return
	}

	gctx.JSON(http.StatusOK, updated.Entry())
}

func (h *handlers) DeleteEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	session, ok := SessionFrom(gctx)
	if !ok {
		gctx.AbortWithStatusJSON(http.StatusUnauthorized, NewError("no session", ErrNoSession))
		return
	}

	id, err := strconv.Atoi(gctx.Param("id"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid event id")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("invalid event id", err))

		return
	}

	err = h.api.DeleteEvent(ctx, session, id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("event deletion failed")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(err.Error()))

		return
	}

	gctx.Status(http.StatusNoContent)
}

// GetTable renders one category slice as a flat table. An unrecognized
// category is a blocking error with zero network calls.
func (h *handlers) GetTable(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	category, err := ParseCategory(gctx.Param("eventType"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event_type", gctx.Param("eventType")).Msg("invalid event type")
		gctx.HTML(http.StatusBadRequest, "table.tmpl", tablePage{
			Authenticated: true,
			Error:         "Invalid event type",
		})

		return
	}

	session, ok := SessionFrom(gctx)
	if !ok {
		gctx.Redirect(http.StatusFound, "/")
		return
	}

	events, err := h.api.ListEvents(ctx, session, category)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("category", string(category)).Msg("failed to fetch events")
		gctx.HTML(http.StatusBadGateway, "table.tmpl", tablePage{
			Authenticated: true,
			Error:         err.Error(),
		})

		return
	}

	rows := make([]tableRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, tableRow{
			Id:          event.Id,
			Title:       event.Title,
			Description: event.Description,
			Start:       formatLocale(event.StartTime),
			End:         formatLocale(event.EndTime),
		})
	}

	gctx.HTML(http.StatusOK, "table.tmpl", tablePage{
		Authenticated: true,
		Heading:       categoryHeading(category),
		Rows:          rows,
	})
}

func isSignup(gctx *gin.Context) bool {
	return strings.HasPrefix(gctx.Request.URL.Path, "/signup")
}

func categoryHeading(category Category) string {
	switch category {
	case CategoryRunning:
		return "Running Events"
	case CategoryUpcoming:
		return "Upcoming Events"
	default:
		return "Completed Events"
	}
}

// formatLocale renders a wire timestamp as a date-time string at render
// time; the stored value stays untransformed. Unparseable values pass
// through as-is.
func formatLocale(value string) string {
	ts, err := time.Parse(TimeLayout, value)
	if err != nil {
		return value
	}

	return ts.Format("1/2/2006, 3:04:05 PM")
}
