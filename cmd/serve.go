package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/pond/model"
	"github.com/jsphweid/pond/render"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func init() {
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves rendering over http",
	Long:  `Serves POST /render, POST /split and GET /durations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return serve(ctx, fmt.Sprintf(":%d", viper.GetInt("port")))
	},
}

const maxBodyBytes = 1 << 20

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/render", HandleRender).Methods("POST")
	router.HandleFunc("/split", HandleSplit).Methods("POST")
	router.HandleFunc("/durations", HandleDurations).Methods("GET")
	return cors.Default().Handler(router)
}

func serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// HandleRender takes a piece as JSON (or YAML) and answers with its markup.
func HandleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := model.ParsePiece(body)
	if err != nil {
		writeError(w, err)
		return
	}
	markup, err := renderPiece(p, render.Default())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, model.RenderResponse{Markup: markup})
}

func HandleSplit(w http.ResponseWriter, r *http.Request) {
	var input model.SplitRequestBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, fmt.Errorf("could not decode request body: %w", err))
		return
	}
	tokens, err := split(input.Duration, input.Cap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, model.SplitResponse{Tokens: tokens})
}

func HandleDurations(w http.ResponseWriter, r *http.Request) {
	entries, err := durationTable()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("could not encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	logger.Debug("bad request", zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
