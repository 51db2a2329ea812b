package handlers

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// MediaProxy отдаёт изображения предпросмотра через консоль, проксируя /media/* на бэкенд.
func MediaProxy(backendURL string, logger *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend url %q is not absolute", backendURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("media proxy failed", zap.String("uri", r.RequestURI), zap.Error(err))
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	}
	return proxy, nil
}
