package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// WebServer serves the countdown UI and the profile API
type WebServer struct {
	app    *App
	config *Config
	addr   string
	clock  Clock
}

// NewWebServer creates a new web server instance
func NewWebServer(app *App, config *Config, addr string) *WebServer {
	return &WebServer{
		app:    app,
		config: config,
		addr:   addr,
		clock:  SystemClock{},
	}
}

// APIResponse is the envelope for every JSON reply
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// APICountdownResponse carries one frame and its display labels
type APICountdownResponse struct {
	APIResponse
	Frame  *Frame  `json:"frame,omitempty"`
	Labels *Labels `json:"labels,omitempty"`
}

// APIProfile is one entry in the profile listing
type APIProfile struct {
	Name           string   `json:"name"`
	Settings       Settings `json:"settings"`
	RetirementDate Date     `json:"retirement_date"`
	Current        bool     `json:"current"`
}

// APIProfilesResponse lists every profile
type APIProfilesResponse struct {
	APIResponse
	Current  string       `json:"current,omitempty"`
	Profiles []APIProfile `json:"profiles,omitempty"`
	Diff     string       `json:"diff,omitempty"`
}

// APICreateProfileRequest creates a profile. Settings default to the
// current profile's when omitted.
type APICreateProfileRequest struct {
	Name     string    `json:"name"`
	Settings *Settings `json:"settings,omitempty"`
}

// APIAboutResponse describes the application
type APIAboutResponse struct {
	APIResponse
	Name    string `json:"name"`
	Version string `json:"version"`
}

// routes registers every handler
func (ws *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", ws.handleIndex)
	mux.HandleFunc("GET /api/countdown", ws.handleCountdown)
	mux.HandleFunc("GET /api/stream", ws.handleStream)
	mux.HandleFunc("GET /api/profiles", ws.handleListProfiles)
	mux.HandleFunc("POST /api/profiles", ws.handleCreateProfile)
	mux.HandleFunc("POST /api/profiles/save", ws.handleSaveProfiles)
	mux.HandleFunc("PUT /api/profiles/{name}", ws.handleUpdateProfile)
	mux.HandleFunc("DELETE /api/profiles/{name}", ws.handleDeleteProfile)
	mux.HandleFunc("POST /api/profiles/{name}/select", ws.handleSelectProfile)
	mux.HandleFunc("GET /api/export-pdf", ws.handleExportPDF)
	mux.HandleFunc("GET /api/about", ws.handleAbout)

	return mux
}

// Handler exposes the routes for embedding and tests
func (ws *WebServer) Handler() http.Handler {
	return ws.routes()
}

// listen opens the listener and works out the browsable URL
func (ws *WebServer) listen() (net.Listener, string, error) {
	// Listen on the address (use :0 for auto-assign)
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return nil, "", err
	}

	actualAddr := listener.Addr().String()
	url := fmt.Sprintf("http://%s", actualAddr)

	// If listening on all interfaces, use localhost for the URL
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") ||
		strings.HasPrefix(actualAddr, "[::]:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}
	return listener, url, nil
}

// newHTTPServer derives every request context from base. Event streams
// only end when their request context does, so cancelling base lets
// Shutdown finish without waiting out its timeout.
func (ws *WebServer) newHTTPServer(base context.Context) *http.Server {
	return &http.Server{
		Handler:     ws.routes(),
		BaseContext: func(net.Listener) context.Context { return base },
	}
}

// Start serves until ctx is cancelled, opening the UI in the external browser
func (ws *WebServer) Start(ctx context.Context) error {
	listener, url, err := ws.listen()
	if err != nil {
		return err
	}

	logger.Info("web", "starting web server", map[string]interface{}{"addr": listener.Addr().String()})
	logger.Info("web", "opening browser", map[string]interface{}{"url": url})

	go openBrowser(url)

	server := ws.newHTTPServer(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StartForEmbedded starts the server and returns the URL and a cleanup function.
// Unlike Start, this does NOT open the browser and does NOT block.
func (ws *WebServer) StartForEmbedded() (url string, cleanup func(), err error) {
	listener, url, err := ws.listen()
	if err != nil {
		return "", nil, err
	}

	logger.Info("web", "starting embedded web server", map[string]interface{}{"addr": listener.Addr().String()})

	base, cancelStreams := context.WithCancel(context.Background())
	server := ws.newHTTPServer(base)

	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			logger.Error("web", err, nil)
		}
	}()

	cleanup = func() {
		cancelStreams()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}

	return url, cleanup, nil
}

// handleIndex serves the main web UI
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, webUIHTML)
}

// handleCountdown returns the current frame
func (ws *WebServer) handleCountdown(w http.ResponseWriter, r *http.Request) {
	frame := ws.app.Snapshot(ws.clock.Now())
	labels := FormatLabels(frame)
	writeJSON(w, http.StatusOK, APICountdownResponse{
		APIResponse: APIResponse{Success: true},
		Frame:       &frame,
		Labels:      &labels,
	})
}

// handleStream pushes a frame every refresh interval as Server-Sent Events
func (ws *WebServer) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := &Ticker{
		Interval:  ws.config.RefreshInterval,
		Clock:     ws.clock,
		Source:    ws.app,
		Presenter: &ssePresenter{w: w, flusher: flusher},
	}
	if err := ticker.Run(r.Context()); err != nil {
		logger.Debug("web", "stream closed", map[string]interface{}{"error": err.Error()})
	}
}

// ssePresenter writes each frame as one "data:" event
type ssePresenter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (p *ssePresenter) Present(f Frame) error {
	labels := FormatLabels(f)
	data, err := json.Marshal(APICountdownResponse{
		APIResponse: APIResponse{Success: true},
		Frame:       &f,
		Labels:      &labels,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "data: %s\n\n", data); err != nil {
		return err
	}
	p.flusher.Flush()
	return nil
}

// handleListProfiles returns every profile, sorted by name
func (ws *WebServer) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ws.profilesResponse(""))
}

// profilesResponse builds the listing from the current App state
func (ws *WebServer) profilesResponse(diff string) APIProfilesResponse {
	profiles, current := ws.app.Profiles()
	resp := APIProfilesResponse{
		APIResponse: APIResponse{Success: true},
		Current:     current,
		Diff:        diff,
	}
	for _, name := range ws.app.Names() {
		s := profiles[name]
		resp.Profiles = append(resp.Profiles, APIProfile{
			Name:           name,
			Settings:       s,
			RetirementDate: s.RetirementDate(),
			Current:        name == current,
		})
	}
	return resp
}

// handleCreateProfile adds a profile and makes it current
func (ws *WebServer) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req APICreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	settings := req.Settings
	if settings == nil {
		_, current := ws.app.Current()
		settings = &current
	}

	if err := ws.app.CreateProfile(req.Name, *settings); err != nil {
		sendProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws.profilesResponse(""))
}

// handleUpdateProfile replaces a profile's settings
func (ws *WebServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var settings Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		sendJSONError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	diff, err := ws.app.UpdateProfile(name, settings)
	if err != nil {
		sendProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.profilesResponse(diff))
}

// handleDeleteProfile removes a profile
func (ws *WebServer) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := ws.app.DeleteProfile(r.PathValue("name")); err != nil {
		sendProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.profilesResponse(""))
}

// handleSelectProfile switches the current profile
func (ws *WebServer) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	if err := ws.app.Select(r.PathValue("name")); err != nil {
		sendProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.profilesResponse(""))
}

// handleSaveProfiles rewrites the profiles file
func (ws *WebServer) handleSaveProfiles(w http.ResponseWriter, r *http.Request) {
	if err := ws.app.SaveProfiles(); err != nil {
		sendProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.profilesResponse(""))
}

// handleExportPDF returns the countdown report for the current profile
func (ws *WebServer) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	frame := ws.app.Snapshot(ws.clock.Now())
	data, err := GenerateCountdownPDF(frame)
	if err != nil {
		logger.Error("pdf", err, map[string]interface{}{"profile": frame.Profile})
		sendJSONError(w, http.StatusInternalServerError, "Failed to generate PDF: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(frame.Profile, frame.Countdown.Now)))
	w.Write(data)
}

// handleAbout returns the application name and version
func (ws *WebServer) handleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIAboutResponse{
		APIResponse: APIResponse{Success: true},
		Name:        appName,
		Version:     version,
	})
}

// pdfFilename builds a download name for a profile's report
func pdfFilename(profile string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, profile)
	return fmt.Sprintf("career-countdown-%s-%s.pdf", safe, now.Format("20060102"))
}

// profileErrorStatus maps store errors to HTTP status codes
func profileErrorStatus(err error) int {
	var verr ValidationError
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProfileExists), errors.Is(err, ErrLastProfile):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidRetirementAge),
		errors.Is(err, ErrInvalidDate), errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sendProfileError reports a store error with the matching status
func sendProfileError(w http.ResponseWriter, err error) {
	status := profileErrorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("profiles", err, nil)
	}
	sendJSONError(w, status, err.Error())
}

// sendJSONError sends a JSON error response
func sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
