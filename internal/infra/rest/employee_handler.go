package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sisnompeg_admin/internal/app"
)

type employeeHandler struct {
	svc       *app.EmployeeService
	kgb       *app.KGBService
	dashboard *app.DashboardService
}

func (h *employeeHandler) create(c *gin.Context) {
	var in app.EmployeeInput
	if !bindJSON(c, &in) {
		return
	}
	e, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mutationBody{Message: "Pegawai berhasil ditambahkan", Data: e})
}

func (h *employeeHandler) findAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *employeeHandler) count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, countBody{Count: n})
}

func (h *employeeHandler) findOne(c *gin.Context) {
	e, err := h.svc.FindOne(c.Request.Context(), c.Param("nip"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *employeeHandler) update(c *gin.Context) {
	var patch app.EmployeePatch
	if !bindJSON(c, &patch) {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("nip"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Pegawai berhasil diperbarui", Data: e})
}

func (h *employeeHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("nip")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Pegawai berhasil dihapus"})
}

func (h *employeeHandler) dashboardStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *employeeHandler) dueNotifications(c *gin.Context) {
	due, err := h.kgb.DueNotifications(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, due)
}

func (h *employeeHandler) processDue(c *gin.Context) {
	res, err := h.kgb.ProcessDueAdvancements(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
