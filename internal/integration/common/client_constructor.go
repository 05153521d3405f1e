package common

import (
	"github.com/MuhammadSenna/langchain-milvus-rag/internal/config"
	pkgHTTP "github.com/MuhammadSenna/langchain-milvus-rag/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the outbound JSON connector shared by the REST gateways.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger, extra ...pkgHTTP.HttpOpts) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAPIKeyHeader(cfg.AuthHeader, cfg.APIKey),
	}

	return pkgHTTP.NewConnector(connCfg, append(opts, extra...)...)
}
