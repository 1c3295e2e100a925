package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shiftworks/recon-api-go/pkg/auth"
	"github.com/shiftworks/recon-api-go/pkg/models"
	"github.com/shiftworks/recon-api-go/pkg/mutator"
	"github.com/shiftworks/recon-api-go/pkg/recon"
	"github.com/shiftworks/recon-api-go/pkg/services"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB     *gorm.DB
	Auth   *auth.Auth
	Engine *recon.Engine
	Logger *slog.Logger
}

// registry builds the collaborator clients for the acting session.
func (h *Handler) registry(c *gin.Context) *services.Registry {
	actor, _ := c.Get("userID")
	actorID, _ := actor.(string)
	return services.NewGormRegistry(h.DB, services.Session{ActorID: actorID})
}

func respondError(c *gin.Context, err error) {
	switch {
	case recon.IsValidation(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case recon.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "conflict": true})
	case recon.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// matrixCell is one member × date entry of the response matrix.
type matrixCell struct {
	Value  models.ResponseValue `json:"value,omitempty"`
	Window *models.TimeWindow   `json:"window,omitempty"`
}

// matrixRow is one member's line in the review table.
type matrixRow struct {
	Member         models.Member         `json:"member"`
	Responses      map[string]matrixCell `json:"responses"`
	Note           string                `json:"note,omitempty"`
	AttendingCount int                   `json:"attending_count"`
}

// GetMatrix renders the member × date response matrix for a collection.
// Query params: roles (comma-separated role ids, selection order
// significant), sort (name | attending_count | date_attending), dir
// (asc | desc), date (target date id for date_attending).
func (h *Handler) GetMatrix(c *gin.Context) {
	reg := h.registry(c)
	ctx := c.Request.Context()

	col, err := reg.Attendance.GetCollection(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses, err := reg.Attendance.GetResponses(ctx, col.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	members, err := reg.Members.ListActiveMembers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	roles, err := reg.Members.ListRoles(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	var selectedRoles []string
	if raw := c.Query("roles"); raw != "" {
		selectedRoles = strings.Split(raw, ",")
	}
	state := recon.SortState{
		Key:    recon.SortKey(c.DefaultQuery("sort", string(recon.SortByName))),
		Desc:   c.Query("dir") == "desc",
		DateID: c.Query("date"),
	}
	if state.Key == recon.SortByDateResponse && state.DateID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "date param required for date_attending sort"})
		return
	}

	agg := recon.AggregateResponses(responses)
	sorted := h.Engine.SortMembers(members, agg, selectedRoles, state)

	rows := make([]matrixRow, 0, len(sorted))
	for _, m := range sorted {
		row := matrixRow{
			Member:         m,
			Responses:      make(map[string]matrixCell),
			Note:           agg.Notes[m.ID],
			AttendingCount: agg.AttendingCount(m.ID),
		}
		for _, d := range col.Dates {
			v := agg.Response(m.ID, d.ID)
			if v == "" {
				continue
			}
			cell := matrixCell{Value: v}
			if w, ok := agg.Window(m.ID, d.ID); ok {
				cell.Window = &w
			}
			row.Responses[d.ID] = cell
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"collection":     col,
		"rows":           rows,
		"sort":           state,
		"roles":          roles,
		"selected_roles": selectedRoles,
	})
}

// dateView is everything the board and mutation endpoints need for one
// target date: the matched business day, capacity board, and pool.
type dateView struct {
	Collection  *models.Collection
	Date        models.TargetDate
	BusinessDay *models.BusinessDay
	Slots       []models.ShiftSlot
	Board       recon.CapacityBoard
	Pool        recon.Pool
}

// loadDateView fetches and aggregates everything for a target date. A
// date with no matching business day yields a view with a nil
// BusinessDay and an empty board; the pool still lists attendees.
func (h *Handler) loadDateView(ctx context.Context, reg *services.Registry, collectionID, dateID string) (*dateView, error) {
	col, err := reg.Attendance.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	var date *models.TargetDate
	for i := range col.Dates {
		if col.Dates[i].ID == dateID {
			date = &col.Dates[i]
			break
		}
	}
	if date == nil {
		return nil, &recon.NotFoundError{Resource: "target date", ID: dateID}
	}

	responses, err := reg.Attendance.GetResponses(ctx, col.ID)
	if err != nil {
		return nil, err
	}
	agg := recon.AggregateResponses(responses)

	days, err := reg.BusinessDays.ListBusinessDays(ctx, col.EventID)
	if err != nil {
		return nil, err
	}
	var day *models.BusinessDay
	for i := range days {
		if days[i].SameDate(date.Date) {
			day = &days[i]
			break
		}
	}

	view := &dateView{Collection: col, Date: *date, BusinessDay: day}
	if day == nil {
		// No business day for this date: empty-state board, full pool.
		view.Pool = recon.ResolvePool(dateID, agg, nil, nil)
		return view, nil
	}

	slots, err := reg.Slots.ListSlots(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	slotIDs := make([]string, 0, len(slots))
	for _, s := range slots {
		slotIDs = append(slotIDs, s.ID)
	}

	var assignments []models.ShiftAssignment
	if len(slotIDs) > 0 {
		assignments, err = reg.Assignments.ListAssignments(ctx, services.AssignmentFilter{
			SlotIDs: slotIDs,
			Status:  models.AssignmentConfirmed,
		})
		if err != nil {
			return nil, err
		}
	}

	view.Slots = slots
	view.Board = h.Engine.BuildCapacityBoard(slots, assignments)
	view.Pool = recon.ResolvePool(dateID, agg, slots, assignments)
	return view, nil
}

func boardResponse(view *dateView) gin.H {
	return gin.H{
		"date":         view.Date,
		"business_day": view.BusinessDay,
		"board":        view.Board,
		"pool":         view.Pool,
	}
}

// GetBoard renders the capacity board and availability pool for one
// target date. A date without a business day degrades to an empty board.
func (h *Handler) GetBoard(c *gin.Context) {
	reg := h.registry(c)
	view, err := h.loadDateView(c.Request.Context(), reg, c.Param("id"), c.Param("dateID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardResponse(view))
}

type assignRequest struct {
	CollectionID string `json:"collection_id" binding:"required"`
	DateID       string `json:"date_id" binding:"required"`
	MemberID     string `json:"member_id" binding:"required"`
	Note         string `json:"note"`
}

// CreateAssignment assigns a member to a slot. On success the date view
// is wholly re-fetched and returned; nothing is patched locally.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reg := h.registry(c)
	ctx := c.Request.Context()
	slotID := c.Param("id")

	view, err := h.loadDateView(ctx, reg, req.CollectionID, req.DateID)
	if err != nil {
		respondError(c, err)
		return
	}
	slot, ok := view.Board.Slot(slotID)
	if !ok {
		respondError(c, &recon.NotFoundError{Resource: "slot", ID: slotID})
		return
	}

	mut := mutator.New(reg.Assignments, h.Logger)
	created, err := mut.Assign(ctx, slot, view.Pool, req.MemberID, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	h.RecordUsage(c, 1, 0)

	view, err = h.loadDateView(ctx, reg, req.CollectionID, req.DateID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := boardResponse(view)
	resp["assignment"] = created
	c.JSON(http.StatusCreated, resp)
}

// CancelAssignment cancels a confirmed assignment. Cancelling an
// already-cancelled assignment reports success.
func (h *Handler) CancelAssignment(c *gin.Context) {
	reg := h.registry(c)
	mut := mutator.New(reg.Assignments, h.Logger)

	if err := mut.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, gin.H{"message": "assignment cancelled"})
}

type rosterRequest struct {
	CollectionID string   `json:"collection_id" binding:"required"`
	DateID       string   `json:"date_id" binding:"required"`
	MemberIDs    []string `json:"member_ids"`
}

// ReplaceRoster re-confirms a slot's entire roster best-effort. The
// response carries the per-item report plus the re-fetched date view;
// a partially failed batch still returns 200 with the failures listed.
func (h *Handler) ReplaceRoster(c *gin.Context) {
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reg := h.registry(c)
	ctx := c.Request.Context()
	slotID := c.Param("id")

	view, err := h.loadDateView(ctx, reg, req.CollectionID, req.DateID)
	if err != nil {
		respondError(c, err)
		return
	}
	slot, ok := view.Board.Slot(slotID)
	if !ok {
		respondError(c, &recon.NotFoundError{Resource: "slot", ID: slotID})
		return
	}

	mut := mutator.New(reg.Assignments, h.Logger)
	report, err := mut.BulkReplace(ctx, slot, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	h.RecordUsage(c, len(report.Created), len(report.Cancelled))

	view, err = h.loadDateView(ctx, reg, req.CollectionID, req.DateID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := boardResponse(view)
	resp["report"] = report
	c.JSON(http.StatusOK, resp)
}
