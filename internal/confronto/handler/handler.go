package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"confronto-service/internal/backend"
	"confronto-service/internal/confronto/model"
	confSvc "confronto-service/internal/confronto/service"
	"confronto-service/internal/export"
	"confronto-service/internal/fileio"
)

// Confronto computes the comparison table for a payload carried by the
// request itself: either a plain JSON ConfrontoPayload, or multipart with a
// "payload" field plus ritorno spreadsheets to merge in first.
func Confronto(svc *confSvc.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		p, err := readPayload(r, log)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f := parseFilter(r)

		cmp := svc.Run(*p, f)
		writeJSON(w, log, confSvc.FlattenAll(cmp, f))

		log.Info().
			Int("voci", len(p.Voci)).
			Int("imprese_visibili", len(cmp.Visible)).
			Int("rows", len(cmp.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("confronto done")
	}
}

// ConfrontoExport is the same pipeline but responds with an XLSX attachment.
func ConfrontoExport(svc *confSvc.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)

		p, err := readPayload(r, log)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f := parseFilter(r)
		cmp := svc.Run(*p, f)

		name := fmt.Sprintf("confronto_%s.xlsx", time.Now().Format("20060102_150405"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		if err := export.WriteXLSX(w, cmp); err != nil {
			log.Error().Err(err).Msg("write xlsx")
		}
	}
}

// CommessaConfronto fetches the payload from the upstream backend itself and
// serves the computed view for one commessa.
func CommessaConfronto(svc *confSvc.Service, cli *backend.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		id := chi.URLParam(r, "id")
		p, err := cli.FetchConfronto(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("commessa", id).Msg("fetch confronto")
			http.Error(w, "upstream fetch failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		f := parseFilter(r)
		cmp := svc.Run(p, f)
		writeJSON(w, log, confSvc.FlattenAll(cmp, f))

		log.Info().
			Str("commessa", id).
			Int("rows", len(cmp.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("confronto done")
	}
}

// readPayload decodes the comparison input. JSON bodies carry the payload
// alone; multipart bodies add ritorno files ("ritorno" + parallel
// "ritorno_label" values) merged in before pivoting.
func readPayload(r *http.Request, log zerolog.Logger) (*model.ConfrontoPayload, error) {
	defer r.Body.Close()

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/") {
		var p model.ConfrontoPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("bad payload: %w", err)
		}
		return &p, nil
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		return nil, fmt.Errorf("bad multipart form: %w", err)
	}
	var p model.ConfrontoPayload
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &p); err != nil {
		return nil, fmt.Errorf("bad payload field: %w", err)
	}

	files := r.MultipartForm.File["ritorno"]
	labels := r.MultipartForm.Value["ritorno_label"]
	for i, fh := range files {
		label := ""
		if i < len(labels) {
			label = strings.TrimSpace(labels[i])
		}
		if label == "" {
			return nil, fmt.Errorf("missing ritorno_label for file %q", fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		righe, err := fileio.ReadRitorno(f, fh.Filename, atoi(r.FormValue("header_row"), 1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}

		matched, skipped := confSvc.MergeRitorno(&p, label, righe)
		log.Info().
			Str("file", fh.Filename).
			Str("label", label).
			Int("matched", matched).
			Int("skipped", skipped).
			Msg("ritorno merged")
	}
	return &p, nil
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}
