package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/services" // Импортируем для маппинга ошибок сервисов
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxBodyBytes = 1_048_576 // 1MB

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// readBody returns the raw request body, capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBodyBytes)
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("body must not be empty")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя и движка сетки в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Не найдено
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrCatalogNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, brackets.ErrMatchNotFound):
		notFoundResponse(w, r, err)

	// Невалидные данные
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, brackets.ErrInvalidInput):
		badRequestResponse(w, r, err)

	// Победитель не участвует в матче
	case errors.Is(err, brackets.ErrInvalidWinner):
		errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, services.ErrInvalidToken):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrExportDisabled):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, paramName))
	if id == "" {
		return "", fmt.Errorf("missing %s in URL path", paramName)
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s query parameter: %q", name, raw)
	}
	return v, nil
}
