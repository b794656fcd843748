package api

import (
	"net/http"

	"github.com/frostedfabrics/inventory-api/internal/domain/calendar"
	"github.com/gin-gonic/gin"
)

/* Calendar categories */

func (a *API) listCalendarCategories(c *gin.Context) {
	out, err := a.calendar.ListCategories(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getCalendarCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	cc, err := a.calendar.GetCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if cc == nil {
		notFound(c, "Calendar category")
		return
	}
	c.JSON(http.StatusOK, cc)
}

func (a *API) createCalendarCategory(c *gin.Context) {
	var p calendar.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	cc, err := a.calendar.CreateCategory(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cc)
}

func (a *API) updateCalendarCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p calendar.CategoryPatch
	if !a.bind(c, &p) {
		return
	}
	if isPut(c) {
		if err := p.Complete(); err != nil {
			a.fail(c, err)
			return
		}
	}
	cc, err := a.calendar.UpdateCategory(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if cc == nil {
		notFound(c, "Calendar category")
		return
	}
	c.JSON(http.StatusOK, cc)
}

func (a *API) deleteCalendarCategory(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	res, err := a.deleter.DeleteCalendarCategory(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar category deleted", "removed": res})
}

/* Events */

func (a *API) listEvents(c *gin.Context) {
	var f calendar.EventFilter
	var ok bool
	if f.CategoryID, ok = a.queryID(c, "category"); !ok {
		return
	}
	if f.From, ok = a.queryTime(c, "from"); !ok {
		return
	}
	if f.To, ok = a.queryTime(c, "to"); !ok {
		return
	}
	out, err := a.calendar.ListEvents(c.Request.Context(), f)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getEvent(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	e, err := a.calendar.GetEvent(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if e == nil {
		notFound(c, "Calendar event")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (a *API) createEvent(c *gin.Context) {
	var p calendar.EventPatch
	if !a.bind(c, &p) {
		return
	}
	if err := p.Complete(); err != nil {
		a.fail(c, err)
		return
	}
	e, err := a.calendar.CreateEvent(c.Request.Context(), p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (a *API) updateEvent(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	var p calendar.EventPatch
	if !a.bind(c, &p) {
		return
	}
	check := p.Check
	if isPut(c) {
		check = p.Complete
	}
	if err := check(); err != nil {
		a.fail(c, err)
		return
	}
	e, err := a.calendar.UpdateEvent(c.Request.Context(), id, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	if e == nil {
		notFound(c, "Calendar event")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (a *API) deleteEvent(c *gin.Context) {
	id, ok := a.pathID(c, "id")
	if !ok {
		return
	}
	removed, err := a.calendar.DeleteEvent(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if !removed {
		notFound(c, "Calendar event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendar event deleted"})
}
