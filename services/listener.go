package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"echo-server/internal/logger"
	"echo-server/internal/middleware"
	"echo-server/internal/models"

	"github.com/gin-gonic/gin"
)

/**
 * Options shared by every listener of a manager
 * @property {string} Host - Bind host, "0.0.0.0" by default
 * @property {middleware.BodyConfig} Body - Body parsing settings
 * @property {map[models.Action]Handler} Handlers - Handler bound to each action
 */
type ListenerOptions struct {
	Host     string
	Body     middleware.BodyConfig
	Handlers map[models.Action]Handler
}

/**
 * Runtime listener of one service definition
 * @description
 * - Owns its gin engine, http.Server and net.Listener
 * - Routes are registered once, in declaration order, by NewListener
 */
type ListenerInstance struct {
	Def models.ServiceDefinition

	mu        sync.RWMutex
	status    models.RunStatus
	startTime time.Time
	lastErr   error
	addr      net.Addr

	engine *gin.Engine
	srv    *http.Server
	ln     net.Listener
	host   string
	routes []models.RouteDetail
	static []models.RouteDetail
}

/**
 * Build the router of a service
 * @param {models.ServiceDefinition} def - Service to build
 * @param {ListenerOptions} opts - Shared options
 * @returns {*ListenerInstance} Listener ready to Start
 * @returns {error} Missing static directory, missing handler or gin route conflict
 * @description
 * - Exact duplicate (method, route) pairs keep the first declaration
 * - A route fully matched by an earlier route of the same method is skipped,
 *   so the first declared route answers like a first-match router would
 * - Routes also answer with a trailing slash, no redirect
 * - Each route logs "Received request on <route> with method <method> :" before its handler
 */
func NewListener(def models.ServiceDefinition, opts ListenerOptions) (inst *ListenerInstance, err error) {
	inst = &ListenerInstance{
		Def:    def,
		status: models.StatusStopped,
		host:   opts.Host,
	}
	if inst.host == "" {
		inst.host = "0.0.0.0"
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery())
	engine.Use(middleware.MetricsMiddleware(Recorder, def.Name))
	engine.Use(middleware.BodyParser(opts.Body))

	// gin 在路由冲突时直接 panic，这里转换为该服务的启动错误
	defer func() {
		if r := recover(); r != nil {
			inst = nil
			err = fmt.Errorf("build routes of %s: %v", def.Name, r)
		}
	}()

	declared := make(map[string][]string)
	for _, ep := range def.Endpoints {
		route := def.FullRoute(ep.Route)
		key := ep.Method + " " + route
		if prev, skip := shadowingRoute(declared[ep.Method], route); skip {
			if prev == route {
				logger.Warnf("Duplicate route %s on port %d ignored", key, def.Port)
			} else {
				logger.Warnf("Route %s on port %d is shadowed by earlier %s, ignored", key, def.Port, prev)
			}
			continue
		}
		declared[ep.Method] = append(declared[ep.Method], route)

		handler, ok := opts.Handlers[ep.Action]
		if !ok {
			return nil, fmt.Errorf("no handler for action %q on %s", ep.Action, key)
		}
		h := wrapHandler(ep.Method, route, handler)
		engine.Handle(ep.Method, route, h)
		if alt := slashVariant(route); alt != "" {
			engine.Handle(ep.Method, alt, h)
		}
		inst.routes = append(inst.routes, models.RouteDetail{Method: ep.Method, Route: route, Action: ep.Action})
	}

	for _, st := range def.Static {
		info, statErr := os.Stat(st.Path)
		if statErr != nil {
			return nil, fmt.Errorf("static mount %s: %w", st.Route, statErr)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static mount %s: %s is not a directory", st.Route, st.Path)
		}
		route := def.FullRoute(st.Route)
		engine.Static(route, st.Path)
		inst.static = append(inst.static, models.RouteDetail{Method: http.MethodGet, Route: route})
	}

	inst.engine = engine
	return inst, nil
}

func routeSegments(route string) []string {
	return strings.Split(strings.Trim(route, "/"), "/")
}

func isParam(seg string) bool {
	return strings.HasPrefix(seg, ":")
}

func isCatchAll(seg string) bool {
	return strings.HasPrefix(seg, "*")
}

/**
 * Compare a route with one declared before it
 * @param {[]string} earlier - Segments of the earlier route
 * @param {[]string} later - Segments of the later route
 * @returns {bool} shadowed - Every path matched by later is matched by earlier
 * @returns {bool} inverted - Some path matches both and gin resolves it to later
 */
func compareRoutes(earlier, later []string) (shadowed, inverted bool) {
	shadowed = true
	// 第一个字面量/参数不一致的位置上，后声明路由为字面量时 gin 会优先选中它
	laterLiteralFirst, decided := false, false
	for i := 0; ; i++ {
		if i >= len(earlier) || i >= len(later) {
			if len(earlier) != len(later) {
				return false, false
			}
			break
		}
		e, l := earlier[i], later[i]
		if isCatchAll(e) {
			break
		}
		if isCatchAll(l) {
			shadowed = false
			break
		}
		switch {
		case isParam(e) && isParam(l):
		case isParam(e):
			if !decided {
				laterLiteralFirst, decided = true, true
			}
		case isParam(l):
			shadowed = false
			decided = true
		case e != l:
			return false, false
		}
	}
	return shadowed, !shadowed && laterLiteralFirst
}

// shadowingRoute 返回第一个完全覆盖 route 的已声明路由
func shadowingRoute(declared []string, route string) (string, bool) {
	segs := routeSegments(route)
	for _, prev := range declared {
		shadowed, inverted := compareRoutes(routeSegments(prev), segs)
		if shadowed {
			return prev, true
		}
		if inverted {
			logger.Warnf("Route %s overlaps earlier %s, requests matching both go to %s", route, prev, route)
		}
	}
	return "", false
}

// slashVariant 返回带或不带结尾斜杠的另一种写法，根路由和 catch-all 路由没有
func slashVariant(route string) string {
	if route == "/" {
		return ""
	}
	if strings.HasSuffix(route, "/") {
		return strings.TrimSuffix(route, "/")
	}
	segs := routeSegments(route)
	if isCatchAll(segs[len(segs)-1]) {
		return ""
	}
	return route + "/"
}

func wrapHandler(method, route string, h Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Infof("Received request on %s with method %s :", route, method)
		h.Handle(c)
		c.Next()
	}
}

// Handler returns the router, usable without binding a port.
func (l *ListenerInstance) Handler() http.Handler {
	return l.engine
}

// Address returns the configured bind address host:port.
func (l *ListenerInstance) Address() string {
	return net.JoinHostPort(l.host, strconv.Itoa(l.Def.Port))
}

// Addr returns the bound address, nil before Start succeeds.
func (l *ListenerInstance) Addr() net.Addr {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.addr
}

func (l *ListenerInstance) Status() models.RunStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

/**
 * Bind the port and serve in a background goroutine
 * @returns {error} Bind error, the listener is marked as error
 * @description
 * - No retry and no fallback port
 * - Logs the startup summary once bound
 */
func (l *ListenerInstance) Start() error {
	ln, err := net.Listen("tcp", l.Address())
	if err != nil {
		l.fail(err)
		return err
	}
	l.mu.Lock()
	l.ln = ln
	l.addr = ln.Addr()
	l.srv = &http.Server{Handler: l.engine}
	l.status = models.StatusRunning
	l.startTime = time.Now()
	l.lastErr = nil
	srv := l.srv
	l.mu.Unlock()

	l.logSummary()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Echo server on port %d stopped: %v", l.Def.Port, err)
			l.fail(err)
		}
	}()
	return nil
}

func (l *ListenerInstance) fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = models.StatusError
	l.lastErr = err
}

func (l *ListenerInstance) logSummary() {
	logger.Infof("Loaded echo server for port %d with routes:", l.Def.Port)
	for _, r := range l.routes {
		logger.Infof("%s -- %s", r.Method, r.Route)
	}
	for _, r := range l.static {
		logger.Infof("Static -- %s", r.Route)
	}
}

// Shutdown gracefully stops the listener.
func (l *ListenerInstance) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	srv := l.srv
	if l.status == models.StatusRunning {
		l.status = models.StatusStopped
	}
	l.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (l *ListenerInstance) GetDetail() models.ListenerDetail {
	l.mu.RLock()
	defer l.mu.RUnlock()
	detail := models.ListenerDetail{
		Name:      l.Def.Name,
		Port:      l.Def.Port,
		Address:   l.Address(),
		Status:    l.status,
		StartTime: l.startTime,
		Routes:    l.routes,
		Static:    l.static,
	}
	if l.addr != nil {
		detail.Address = l.addr.String()
	}
	if l.lastErr != nil {
		detail.LastError = l.lastErr.Error()
	}
	return detail
}
