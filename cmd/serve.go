package cmd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/barline/barline/constants"
	"github.com/barline/barline/engine"
	"github.com/barline/barline/model"
	"github.com/barline/barline/registry"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the editing operations over HTTP",
	Long:  `Serves the editing operations over HTTP. Documents stay open in memory for the lifetime of the process.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func serve() {
	eng := engine.New(registry.New())
	router := NewRouter(eng)
	handler := cors.Default().Handler(router)
	addr := constants.GetListenAddr()
	log.Printf("listening on %v", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

type loadRequest struct {
	Path  string `json:"path"`
	Alias string `json:"alias,omitempty"`
}

type saveRequest struct {
	Path string `json:"path,omitempty"`
}

type measuresRequest struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Track *int `json:"track,omitempty"`
}

type addTrackRequest struct {
	Name    string `json:"name,omitempty"`
	Channel int    `json:"channel"`
	Program *int   `json:"program,omitempty"`
}

type addNotesRequest struct {
	Notes []model.NoteInput `json:"notes"`
}

type deleteNotesRequest struct {
	MeasureStart int  `json:"measure_start"`
	MeasureEnd   int  `json:"measure_end"`
	PitchMin     *int `json:"pitch_min,omitempty"`
	PitchMax     *int `json:"pitch_max,omitempty"`
}

type transposeRequest struct {
	Semitones    int  `json:"semitones"`
	MeasureStart *int `json:"measure_start,omitempty"`
	MeasureEnd   *int `json:"measure_end,omitempty"`
}

type quantizeRequest struct {
	GridBeats    float64 `json:"grid_beats"`
	MeasureStart *int    `json:"measure_start,omitempty"`
	MeasureEnd   *int    `json:"measure_end,omitempty"`
}

type instrumentRequest struct {
	Program int `json:"program"`
}

type tempoRequest struct {
	Tick int64   `json:"tick"`
	BPM  float64 `json:"bpm"`
}

type timeSigRequest struct {
	Tick        int64 `json:"tick"`
	Numerator   int   `json:"numerator"`
	Denominator int   `json:"denominator"`
}

// NewRouter wires every engine operation onto a JSON route. All domain
// validation happens in the engine; handlers only decode, dispatch and map
// error kinds to status codes.
func NewRouter(eng *engine.Engine) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		infos, err := eng.List()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, infos)
	}).Methods("GET")

	router.HandleFunc("/documents/load", func(w http.ResponseWriter, r *http.Request) {
		var req loadRequest
		if !decode(w, r, &req) {
			return
		}
		alias, err := eng.Load(req.Path, req.Alias)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"alias": alias})
	}).Methods("POST")

	router.HandleFunc("/documents/create", func(w http.ResponseWriter, r *http.Request) {
		var opts model.CreateOptions
		if !decode(w, r, &opts) {
			return
		}
		alias, err := eng.Create(opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"alias": alias})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/save", func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if !decode(w, r, &req) {
			return
		}
		path, err := eng.Save(mux.Vars(r)["alias"], req.Path)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"path": path})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}", func(w http.ResponseWriter, r *http.Request) {
		dirty, err := eng.Unload(mux.Vars(r)["alias"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"had_unsaved_changes": dirty})
	}).Methods("DELETE")

	router.HandleFunc("/documents/{alias}/search", func(w http.ResponseWriter, r *http.Request) {
		var filters model.SearchFilters
		if !decode(w, r, &filters) {
			return
		}
		res, err := eng.Search(mux.Vars(r)["alias"], filters)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/measures", func(w http.ResponseWriter, r *http.Request) {
		var req measuresRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := eng.Measures(mux.Vars(r)["alias"], req.Start, req.End, req.Track)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks", func(w http.ResponseWriter, r *http.Request) {
		var req addTrackRequest
		if !decode(w, r, &req) {
			return
		}
		index, err := eng.AddTrack(mux.Vars(r)["alias"], req.Name, req.Channel, req.Program)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]int{"track": index})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks/{track}/notes", func(w http.ResponseWriter, r *http.Request) {
		track, ok := trackVar(w, r)
		if !ok {
			return
		}
		var req addNotesRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := eng.AddNotes(mux.Vars(r)["alias"], track, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks/{track}/notes/delete", func(w http.ResponseWriter, r *http.Request) {
		track, ok := trackVar(w, r)
		if !ok {
			return
		}
		var req deleteNotesRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := eng.DeleteNotes(mux.Vars(r)["alias"], track, req.MeasureStart, req.MeasureEnd, req.PitchMin, req.PitchMax)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks/{track}/transpose", func(w http.ResponseWriter, r *http.Request) {
		track, ok := trackVar(w, r)
		if !ok {
			return
		}
		var req transposeRequest
		if !decode(w, r, &req) {
			return
		}
		affected, err := eng.Transpose(mux.Vars(r)["alias"], track, req.Semitones, req.MeasureStart, req.MeasureEnd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]int{"affected": affected})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks/{track}/quantize", func(w http.ResponseWriter, r *http.Request) {
		track, ok := trackVar(w, r)
		if !ok {
			return
		}
		var req quantizeRequest
		if !decode(w, r, &req) {
			return
		}
		moved, err := eng.Quantize(mux.Vars(r)["alias"], track, req.GridBeats, req.MeasureStart, req.MeasureEnd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]int{"moved": moved})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tracks/{track}/instrument", func(w http.ResponseWriter, r *http.Request) {
		track, ok := trackVar(w, r)
		if !ok {
			return
		}
		var req instrumentRequest
		if !decode(w, r, &req) {
			return
		}
		if err := eng.SetInstrument(mux.Vars(r)["alias"], track, req.Program); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/tempo", func(w http.ResponseWriter, r *http.Request) {
		var req tempoRequest
		if !decode(w, r, &req) {
			return
		}
		if err := eng.SetTempo(mux.Vars(r)["alias"], req.Tick, req.BPM); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}).Methods("POST")

	router.HandleFunc("/documents/{alias}/time-signature", func(w http.ResponseWriter, r *http.Request) {
		var req timeSigRequest
		if !decode(w, r, &req) {
			return
		}
		if err := eng.SetTimeSignature(mux.Vars(r)["alias"], req.Tick, req.Numerator, req.Denominator); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})
	}).Methods("POST")

	return router
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeStatus(w, http.StatusBadRequest, "could not decode request body: "+err.Error())
		return false
	}
	return true
}

func trackVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	track, err := strconv.Atoi(mux.Vars(r)["track"])
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "track index must be an integer")
		return 0, false
	}
	return track, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidArgument):
		writeStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrFormat):
		writeStatus(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeStatus(w, http.StatusInternalServerError, err.Error())
	}
}

func writeStatus(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}
