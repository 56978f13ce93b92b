// Package server exposes target generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guimove/scenequery/internal/generator"
	"github.com/guimove/scenequery/internal/logging"
	"github.com/guimove/scenequery/internal/model"
	"github.com/guimove/scenequery/internal/targets"
)

var log = logging.Log()

// BasePath is the versioned prefix of every API route.
const BasePath = "/api/v1"

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scenequery_http_requests_total",
	Help: "HTTP requests by route and status code.",
}, []string{"route", "code"})

type API struct {
	Builder *targets.Builder
}

// New registers the API handlers with r.
func New(b *targets.Builder, r *gin.Engine) *API {
	a := &API{Builder: b}
	r.Use(a.logger)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	v := r.Group(BasePath)
	v.GET("/scenes", a.Scenes)
	v.GET("/scenes/:scene/metrics", a.SceneMetrics)
	v.POST("/targets", a.Targets)
	return a
}

// NewRouter returns a gin engine in release mode with recovery and the API installed.
func NewRouter(b *targets.Builder) *gin.Engine {
	gin.DefaultWriter = logging.Writer()
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()
	router := gin.New()
	router.Use(gin.Recovery())
	New(b, router)
	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening for http", "addr", addr)
		errc <- s.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Scenes handler lists the known scenes.
func (a *API) Scenes(c *gin.Context) {
	c.JSON(http.StatusOK, model.Scenes)
}

// SceneMetrics handler lists the metrics of one scene.
func (a *API) SceneMetrics(c *gin.Context) {
	scene, err := model.ParseScene(c.Param("scene"))
	if !check(c, http.StatusNotFound, err) {
		return
	}
	g := a.generatorFor(scene)
	out := SceneMetrics{Scene: scene, Metrics: []Metric{}}
	for _, m := range g.Metrics() {
		out.Metrics = append(out.Metrics, Metric{Name: m, AuxiliaryLines: targets.HasAuxiliaryLines(m)})
	}
	c.JSON(http.StatusOK, out)
}

// Targets handler generates the panel targets of one metric.
func (a *API) Targets(c *gin.Context) {
	var req TargetsRequest
	if !check(c, http.StatusBadRequest, c.ShouldBindJSON(&req)) {
		return
	}
	// Unknown scenes are served by the performance generator, as in the library.
	scene, err := model.ParseScene(req.Scene)
	if err != nil {
		scene = model.Scene(req.Scene)
	}
	if !check(c, http.StatusBadRequest, generator.CheckContext(req.Context)) {
		return
	}
	out := a.Builder.CreateTargetsPanelList(scene, req.Metric, req.Context, req.NeedAuxiliaryLine)
	if len(out) == 0 {
		check(c, http.StatusNotFound, fmt.Errorf("scene %s has no metric %q", a.generatorFor(scene).Scene(), req.Metric))
		return
	}
	c.JSON(http.StatusOK, TargetsResponse{Targets: out})
}

func (a *API) generatorFor(scene model.Scene) generator.Generator {
	if a.Builder.Factory != nil {
		return a.Builder.Factory.Get(scene)
	}
	return generator.GetInstance(scene)
}

// check aborts the request with code when err is not nil.
func check(c *gin.Context, code int, err error) (ok bool) {
	if err != nil && !c.IsAborted() {
		c.AbortWithStatusJSON(code, c.Error(err).JSON())
		log.V(1).Info("abort request", "url", c.Request.URL.String(), "code", code, "error", err.Error())
	}
	return err == nil && !c.IsAborted()
}

// logger is a gin handler that logs and counts requests.
func (a *API) logger(c *gin.Context) {
	start := time.Now()
	defer func() {
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		log := log.WithValues(
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"from", c.Request.RemoteAddr,
			"code", status,
			"latency", time.Since(start))
		if len(c.Errors) > 0 {
			log = log.WithValues("errors", c.Errors.Errors())
		}
		if c.IsAborted() || status/100 != 2 {
			log.V(1).Info("request failed")
		} else {
			log.V(2).Info("request succeeded")
		}
	}()
	c.Next()
}
