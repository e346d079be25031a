package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/Domenick1991/dummydata/internal/apperror"
	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/Domenick1991/dummydata/internal/service/dummy"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

type generateResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

type DummyHandler struct {
	service dummy.DummyUseCase
}

func NewDummyHandler(service dummy.DummyUseCase) *DummyHandler {
	return &DummyHandler{service: service}
}

func (h *DummyHandler) Register(router *gin.RouterGroup) {
	router.GET("/dummy/generate", h.generate)
	router.GET("/dummy/show", h.show)
}

// generate godoc
// @Summary  Generate dummy data
// @Tags     dummy
// @Produce  json
// @Param    generate_num query int    true  "Number of dummy records to generate"
// @Param    table_name   query string true  "Table name"
// @Param    mode         query string false "y or n. If y, the table is emptied before the insert"
// @Success  200 {object} generateResponse
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Failure  500 {object} errorResponse
// @Router   /home/api/dummy/generate [get]
func (h *DummyHandler) generate(c *gin.Context) {
	n, ok := parseCount(c.Query("generate_num"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid generate_num parameter"})
		return
	}
	table := c.Query("table_name")
	if !slices.Contains(h.service.Tables(), table) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid table_name parameter"})
		return
	}

	res, err := h.service.Generate(c.Request.Context(), table, n, domain.ParseMode(c.Query("mode")))
	if err != nil {
		c.Error(err)
		c.JSON(apperror.StatusOf(err), errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, generateResponse{
		Status:   "success",
		Message:  "Dummy data generated successfully!",
		Inserted: res.Inserted,
	})
}

// show godoc
// @Summary  Show a table's rows
// @Tags     dummy
// @Produce  json
// @Param    table_name query string true "Table name"
// @Success  200 {array}  object
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Router   /home/api/dummy/show [get]
func (h *DummyHandler) show(c *gin.Context) {
	table := c.Query("table_name")
	if !slices.Contains(h.service.Tables(), table) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid table_name parameter"})
		return
	}

	rows, err := h.service.Show(c.Request.Context(), table)
	if err != nil {
		c.Error(err)
		c.JSON(apperror.StatusOf(err), errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// parseCount accepts only a non-empty run of ASCII digits.
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
