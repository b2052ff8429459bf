package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sisnompeg_admin/internal/app"
)

type educationHandler struct {
	svc *app.EducationService
}

func (h *educationHandler) create(c *gin.Context) {
	var in app.EducationInput
	if !bindJSON(c, &in) {
		return
	}
	e, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mutationBody{Message: "Data pendidikan berhasil ditambahkan", Data: e})
}

func (h *educationHandler) findAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *educationHandler) count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, countBody{Count: n})
}

func (h *educationHandler) findOne(c *gin.Context) {
	v, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *educationHandler) update(c *gin.Context) {
	var patch app.EducationPatch
	if !bindJSON(c, &patch) {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data pendidikan berhasil diperbarui", Data: e})
}

func (h *educationHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data pendidikan berhasil dihapus"})
}

type levelingHandler struct {
	svc *app.LevelingService
}

func (h *levelingHandler) create(c *gin.Context) {
	var in app.LevelingInput
	if !bindJSON(c, &in) {
		return
	}
	l, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mutationBody{Message: "Data penjenjangan berhasil ditambahkan", Data: l})
}

func (h *levelingHandler) findAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *levelingHandler) findOne(c *gin.Context) {
	v, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *levelingHandler) update(c *gin.Context) {
	var patch app.LevelingPatch
	if !bindJSON(c, &patch) {
		return
	}
	l, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data penjenjangan berhasil diperbarui", Data: l})
}

func (h *levelingHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data penjenjangan berhasil dihapus"})
}

type structureHandler struct {
	svc *app.StructureService
}

func (h *structureHandler) create(c *gin.Context) {
	var in app.StructureInput
	if !bindJSON(c, &in) {
		return
	}
	a, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mutationBody{Message: "Data struktur berhasil ditambahkan", Data: a})
}

func (h *structureHandler) findAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *structureHandler) count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, countBody{Count: n})
}

func (h *structureHandler) findOne(c *gin.Context) {
	v, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *structureHandler) update(c *gin.Context) {
	var patch app.StructurePatch
	if !bindJSON(c, &patch) {
		return
	}
	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data struktur berhasil diperbarui", Data: a})
}

func (h *structureHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data struktur berhasil dihapus"})
}

type careerNoteHandler struct {
	svc *app.CareerNoteService
	kgb *app.KGBService
}

func (h *careerNoteHandler) create(c *gin.Context) {
	var in app.CareerNoteInput
	if !bindJSON(c, &in) {
		return
	}
	n, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mutationBody{Message: "Data catatan karir berhasil ditambahkan", Data: n})
}

func (h *careerNoteHandler) findAll(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *careerNoteHandler) findOne(c *gin.Context) {
	v, err := h.svc.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *careerNoteHandler) update(c *gin.Context) {
	var patch app.CareerNotePatch
	if !bindJSON(c, &patch) {
		return
	}
	n, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data catatan karir berhasil diperbarui", Data: n})
}

func (h *careerNoteHandler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationBody{Message: "Data catatan karir berhasil dihapus"})
}

func (h *careerNoteHandler) checkEligibility(c *gin.Context) {
	el, err := h.kgb.CheckEligibility(c.Request.Context(), c.Param("nip"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, el)
}
