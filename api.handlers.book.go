package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetAllBooks godoc
// @Summary      List all books
// @Tags         books
// @Produce      json
// @Success      200  {array}   Book
// @Failure      500  {object}  APIError
// @Router       /books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to get all books", EmptyData)
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err = WriteResponse(r.Context(), w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetAvailableBooks godoc
// @Summary      List available books
// @Tags         books
// @Produce      json
// @Success      200  {array}   Book
// @Failure      500  {object}  APIError
// @Router       /books/available [get]
func (api *APIHandler) GetAvailableBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books, err := api.bookService.GetAvailable(r.Context())
	if err != nil {
		api.logger.Error("failed to get available books", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to get available books", EmptyData)
		return
	}
	api.logger.Info("success to get available books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err = WriteResponse(r.Context(), w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateBook godoc
// @Summary      Add a new book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        book  body      NewBook  true  "title, author and available are required"
// @Success      201   {object}  Book
// @Failure      400   {object}  APIError
// @Failure      500   {object}  APIError
// @Router       /books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var nb NewBook
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeBookRequestBody(r, &nb); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", "invalid request body")
		return
	}

	book, err := api.bookService.Add(r.Context(), nb)
	if IsValidationError(err) {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", err.Error())
		return
	}
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to create the book", EmptyData)
		return
	}
	api.logger.Info("success to create book", zap.Int("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusCreated, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateBook godoc
// @Summary      Update some fields of a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      int         true  "book id"
// @Param        book  body      BookUpdate  true  "any subset of title, author and available"
// @Success      200   {object}  Book
// @Failure      400   {object}  APIError
// @Failure      404   {object}  APIError
// @Failure      500   {object}  APIError
// @Router       /books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", EmptyData)
		return
	}

	var u BookUpdate
	if err = DecodeBookRequestBody(r, &u); err != nil {
		api.logger.Error("failed to update book", zap.Int("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", "invalid request body")
		return
	}

	book, err := api.bookService.Update(r.Context(), id, u)
	switch {
	case err == nil:
	case errors.Is(err, ErrBookNotFound):
		api.logger.Error("book does not exist", zap.Int("book.id", id), zap.String("request.id", requestID))
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	case IsValidationError(err):
		api.logger.Error("failed to update book", zap.Int("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusBadRequest, "failed to update the book", err.Error())
		return
	default:
		api.logger.Error("failed to update book", zap.Int("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to update the book", EmptyData)
		return
	}
	api.logger.Info("success to update book", zap.Int("book.id", book.ID), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "book id"
// @Success      200  {object}  Book
// @Failure      400  {object}  APIError
// @Failure      404  {object}  APIError
// @Failure      500  {object}  APIError
// @Router       /books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.logger.Error("book id provided is not valid", zap.String("book.id", ps.ByName("id")), zap.String("request.id", requestID))
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", EmptyData)
		return
	}

	book, err := api.bookService.Delete(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Error("book does not exist", zap.Int("book.id", id), zap.String("request.id", requestID))
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData)
		return
	}
	if err != nil {
		api.logger.Error("failed to delete book", zap.Int("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, http.StatusInternalServerError, "failed to delete the book", EmptyData)
		return
	}
	api.logger.Info("success to delete book", zap.Int("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// sendError writes the error payload and logs when it could not be sent.
func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	errResp := NewAPIError(requestID, status, message, data)
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}
