package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/AnTengye/contractmock/model"
	"github.com/AnTengye/contractmock/pkg/logger"
	"github.com/AnTengye/contractmock/pkg/metrics"
	"github.com/AnTengye/contractmock/service"
	"github.com/gin-gonic/gin"
)

// Error messages returned in the {"message": ...} envelope.
const (
	MsgMissingFields = "Missing required fields"
	MsgNotFound      = "Contract not found"
	MsgInvalidBody   = "Invalid request body"
	MsgInvalidStatus = "Invalid status"
)

type ContractHandler struct {
	store *service.ContractStore
	newID service.IDGenerator
}

func NewContractHandler(store *service.ContractStore, newID service.IDGenerator) *ContractHandler {
	if newID == nil {
		newID = service.NewUUIDGenerator()
	}
	return &ContractHandler{
		store: store,
		newID: newID,
	}
}

// List returns every contract in insertion order
func (h *ContractHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// Create validates the body, assigns an id and stores a pending contract
func (h *ContractHandler) Create(c *gin.Context) {
	fields, ok := readFields(c)
	if !ok {
		metrics.RecordContractOperation("create", metrics.ResultInvalid)
		return
	}

	contract, err := model.NewContract(h.newID, fields)
	if err != nil {
		metrics.RecordContractOperation("create", metrics.ResultInvalid)
		if errors.Is(err, model.ErrMissingFields) {
			logger.Debug(c.Request.Context(), "contract rejected",
				"missing", fields.Missing(model.RequiredFields...))
			respondError(c, http.StatusBadRequest, MsgMissingFields)
			return
		}
		respondError(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	h.store.Insert(contract)
	metrics.RecordContractOperation("create", metrics.ResultOK)
	metrics.SetContractsStored(h.store.Count())

	logger.Info(c.Request.Context(), "contract created",
		"contract_id", contract.ContractID,
		"customer_id", contract.CustomerID,
	)

	c.JSON(http.StatusCreated, contract)
}

// Get returns a single contract
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.store.FindByID(c.Param("id"))
	if err != nil {
		metrics.RecordContractOperation("get", metrics.ResultNotFound)
		respondError(c, http.StatusNotFound, MsgNotFound)
		return
	}

	metrics.RecordContractOperation("get", metrics.ResultOK)
	c.JSON(http.StatusOK, contract)
}

// Update shallow-merges the body into the stored contract
func (h *ContractHandler) Update(c *gin.Context) {
	id := c.Param("id")

	// Unknown ids are reported before the body is looked at
	if _, err := h.store.FindByID(id); err != nil {
		metrics.RecordContractOperation("update", metrics.ResultNotFound)
		respondError(c, http.StatusNotFound, MsgNotFound)
		return
	}

	patch, ok := readFields(c)
	if !ok {
		metrics.RecordContractOperation("update", metrics.ResultInvalid)
		return
	}
	if _, ok := patch[model.FieldContractID]; ok {
		logger.Warn(c.Request.Context(), "ignoring contractId in update body", "contract_id", id)
	}

	contract, err := h.store.ReplaceByID(id, patch)
	switch {
	case errors.Is(err, service.ErrContractNotFound):
		metrics.RecordContractOperation("update", metrics.ResultNotFound)
		respondError(c, http.StatusNotFound, MsgNotFound)
		return
	case errors.Is(err, service.ErrInvalidStatus):
		metrics.RecordContractOperation("update", metrics.ResultInvalid)
		respondError(c, http.StatusBadRequest, MsgInvalidStatus)
		return
	case err != nil:
		metrics.RecordContractOperation("update", metrics.ResultInvalid)
		respondError(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	metrics.RecordContractOperation("update", metrics.ResultOK)
	logger.Info(c.Request.Context(), "contract updated", "contract_id", id, "status", contract.Status)

	c.JSON(http.StatusOK, contract)
}

// Cancel marks a contract cancelled; the record stays listed
func (h *ContractHandler) Cancel(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.CancelByID(id); err != nil {
		metrics.RecordContractOperation("cancel", metrics.ResultNotFound)
		respondError(c, http.StatusNotFound, MsgNotFound)
		return
	}

	metrics.RecordContractOperation("cancel", metrics.ResultOK)
	logger.Info(c.Request.Context(), "contract cancelled", "contract_id", id)

	c.Status(http.StatusNoContent)
}

// readFields decodes the body as a JSON object, writing a 400 on failure.
func readFields(c *gin.Context) (model.Fields, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn(c.Request.Context(), "failed to read request body", "error", err)
		respondError(c, http.StatusBadRequest, MsgInvalidBody)
		return nil, false
	}

	fields, err := model.ParseFields(body)
	if err != nil {
		logger.Debug(c.Request.Context(), "invalid request body", "error", err)
		respondError(c, http.StatusBadRequest, MsgInvalidBody)
		return nil, false
	}
	return fields, true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
