package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/ColbyCabrera/harmonia/constants"
	"github.com/ColbyCabrera/harmonia/engine"
	"github.com/ColbyCabrera/harmonia/model"
	"github.com/ColbyCabrera/harmonia/musicxml"
	"github.com/ColbyCabrera/harmonia/store"
	"github.com/ColbyCabrera/harmonia/theory"
)

// pieces is the optional persistence layer; nil when no table is configured.
var pieces *store.Store

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the generation API",
	Long: `Serves the generation API over HTTP: POST /generate produces a piece,
GET /pieces/{id} fetches a stored one.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// NewRouter wires the API routes.
func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/generate", HandleGenerate).Methods("POST")
	router.HandleFunc("/pieces/{id}", HandleGetPiece).Methods("GET")
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	return router
}

func serve() {
	s, err := store.NewFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	pieces = s
	if pieces == nil {
		log.Print("no store table configured, pieces are not persisted")
	}

	handler := cors.Default().Handler(NewRouter())
	addr := ":" + constants.GetPort()
	log.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var greq model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&greq); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}

	req, err := engine.NewRequest(greq)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	piece, diags, err := engine.Harmonize(req)
	if err != nil {
		var invalid *theory.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	score, err := musicxml.Write(piece)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if pieces != nil {
		// Persistence is best-effort; the response already carries the piece.
		if err := pieces.PutPiece(piece, diags); err != nil {
			log.Printf("store piece %s: %v", piece.ID, err)
		}
	}

	if diags == nil {
		diags = []model.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, model.GenerateResponse{
		ID:          piece.ID,
		Progression: piece.Progression(),
		MusicXML:    score,
		Diagnostics: diags,
	})
}

func HandleGetPiece(w http.ResponseWriter, r *http.Request) {
	if pieces == nil {
		writeError(w, http.StatusNotFound, "piece store is not configured")
		return
	}
	id := mux.Vars(r)["id"]
	rec, err := pieces.GetPiece(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no piece with id %s", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Error: detail})
}
