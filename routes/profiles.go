package routes

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/pxtr"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/util/httputil"
	"github.com/zkiln/radmin/util/log"
)

func newListHandler(replay *radmin.ReplayService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		class := mux.Vars(r)["class"]
		log.Infow(ctx, "list request", "class", class)
		entries, err := replay.List(ctx, class)
		if err != nil {
			httputil.InternalServerError(ctx, w, "failed to list profiles: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			httputil.InternalServerError(ctx, w, "failed to encode response: %s", err)
			return
		}
	}
}

func newProfileHandler(replay *radmin.ReplayService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		class, profile := vars["class"], vars["profile"]
		log.Infow(ctx, "profile request", "class", class, "profile", profile)
		parms, err := pxtr.EncodeParms(pxtr.Parms{Class: class, ProfileName: profile})
		if err != nil {
			httputil.BadRequest(ctx, w, "invalid profile: %s", err)
			return
		}
		result, err := replay.Call(ctx, radmin.ExtractResource, parms)
		if err != nil {
			httputil.InternalServerError(ctx, w, "failed to extract profile: %s", err)
			return
		}
		if !result.Status.OK() {
			httputil.NotFound(ctx, w, "profile %s in class %s not found", profile, class)
			return
		}
		tree, err := pxtr.Decode(ctx, result.Record)
		if err != nil {
			httputil.InternalServerError(ctx, w, "failed to decode record: %s", err)
			return
		}
		out, err := kvjson.Generate(tree)
		if err != nil {
			httputil.InternalServerError(ctx, w, "failed to generate response: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(out); err != nil {
			log.Errorw(ctx, "error writing response", "error", err)
		}
	}
}

func newCaptureHandler(replay *radmin.ReplayService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		record, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
		if err != nil {
			httputil.BadRequest(ctx, w, "failed to read record: %s", err)
			return
		}
		if _, err := pxtr.Parse(record); err != nil {
			httputil.BadRequest(ctx, w, "invalid record: %s", err)
			return
		}
		entry, err := replay.Capture(ctx, uuid.NewString(), record)
		if err != nil {
			httputil.InternalServerError(ctx, w, "failed to capture record: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			log.Errorw(ctx, "error writing response", "error", err)
		}
	}
}
