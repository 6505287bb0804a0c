package cmd

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jazzify/chordplay/engine"
	"github.com/jazzify/chordplay/model"
	"github.com/jazzify/chordplay/stage"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves play sessions over HTTP",
	Long:  `Serves play sessions over HTTP`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

var (
	sessionsMu sync.Mutex
	sessions   = make(map[string]*engine.Engine)
	catalog    []stage.Stage
)

type createSessionBody struct {
	Stage string `json:"stage"`
}

type inputBody struct {
	Notes model.Notes `json:"notes"`
	AtMs  *float64    `json:"at_ms"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

func HandleListStages(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(catalog)
}

func HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "could not parse request body: "+err.Error())
		return
	}
	st, ok := stage.Find(catalog, body.Stage)
	if !ok {
		writeError(w, 404, "no stage "+body.Stage)
		return
	}
	cfg, err := st.Config()
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	eng, err := engine.New(cfg)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	sessionsMu.Lock()
	sessions[eng.ID()] = eng
	sessionsMu.Unlock()

	json.NewEncoder(w).Encode(map[string]string{"id": eng.ID(), "stage": st.Number})
}

func getSession(w http.ResponseWriter, r *http.Request) *engine.Engine {
	id := mux.Vars(r)["id"]
	sessionsMu.Lock()
	eng, ok := sessions[id]
	sessionsMu.Unlock()
	if !ok {
		writeError(w, 404, "no session "+id)
		return nil
	}
	return eng
}

func HandleStartSession(w http.ResponseWriter, r *http.Request) {
	eng := getSession(w, r)
	if eng == nil {
		return
	}
	if err := eng.Start(); err != nil {
		writeError(w, 400, err.Error())
		return
	}
	json.NewEncoder(w).Encode(eng.GetState())
}

func HandleStopSession(w http.ResponseWriter, r *http.Request) {
	eng := getSession(w, r)
	if eng == nil {
		return
	}
	eng.Stop()
	json.NewEncoder(w).Encode(eng.GetState())
}

func HandleSessionState(w http.ResponseWriter, r *http.Request) {
	eng := getSession(w, r)
	if eng == nil {
		return
	}
	json.NewEncoder(w).Encode(eng.GetState())
}

func HandleSessionInput(w http.ResponseWriter, r *http.Request) {
	eng := getSession(w, r)
	if eng == nil {
		return
	}
	var body inputBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "could not parse request body: "+err.Error())
		return
	}
	if len(body.Notes) == 0 {
		writeError(w, 400, "notes must not be empty")
		return
	}
	atMs := -1.0
	if body.AtMs != nil {
		atMs = *body.AtMs
	}
	eng.SubmitNotes(body.Notes, atMs)
	w.WriteHeader(202)
}

func HandleFillLane(w http.ResponseWriter, r *http.Request) {
	eng := getSession(w, r)
	if eng == nil {
		return
	}
	var body struct {
		Lane int `json:"lane"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "could not parse request body: "+err.Error())
		return
	}
	entry, err := eng.FillLane(body.Lane)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}
	json.NewEncoder(w).Encode(entry)
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/stages", HandleListStages).Methods("GET")
	router.HandleFunc("/sessions", HandleCreateSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/start", HandleStartSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/stop", HandleStopSession).Methods("POST")
	router.HandleFunc("/sessions/{id}/state", HandleSessionState).Methods("GET")
	router.HandleFunc("/sessions/{id}/input", HandleSessionInput).Methods("POST")
	router.HandleFunc("/sessions/{id}/fill", HandleFillLane).Methods("POST")
	return router
}

// LoadServeFiles primes the stage catalog; split out so tests can
// call it without binding a port.
func LoadServeFiles() {
	catalog = loadCatalog()
}

func serve() {
	LoadServeFiles()
	handler := cors.Default().Handler(NewRouter())
	log.Fatal(http.ListenAndServe(serveAddr, handler))
}
