package entityinput

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gqlgo "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/jerrors"
	"go.uber.org/zap"
)

// Request is a decoded GraphQL request.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// HandlerFunc executes a request.
type HandlerFunc func(ctx context.Context, req *Request) *gqlgo.Result

// MiddlewareFunc wraps the execution of every request.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
	Logger      *zap.Logger
}

// WithMiddlewares adds middlewares. The first one is the outermost.
func WithMiddlewares(middlewares ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// WithLogger sets the logger used for transport failures.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.Logger = logger
	}
}

// HTTPHandler implements the handler required for executing the graphql queries and mutations
func HTTPHandler(schema gqlgo.Schema, opts ...HandlerOption) http.Handler {
	o := handlerOptions{Logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	h := &httpHandler{
		handler: handler{schema: schema},
		logger:  o.Logger,
	}

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	return h
}

type handler struct {
	schema gqlgo.Schema
}

type httpHandler struct {
	handler

	exec   HandlerFunc
	logger *zap.Logger
}

type httpResponse struct {
	Data   interface{}      `json:"data"`
	Errors []*jerrors.Error `json:"errors"`
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse := func(response httpResponse) {
		responseJSON, err := json.Marshal(response)
		if err != nil {
			h.logger.Error("Failed to encode response", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}
	writeError := func(err error) {
		writeResponse(httpResponse{Errors: []*jerrors.Error{jerrors.ConvertError(err)}})
	}

	if r.Method != http.MethodPost {
		writeError(errors.New("request must be a POST"))
		return
	}

	if r.Body == nil || r.Body == http.NoBody {
		writeError(errors.New("request must include a query"))
		return
	}

	var params Request
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(err)
		return
	}
	if params.Query == "" {
		writeError(errors.New("must have a single query"))
		return
	}

	ctx := addVariables(r.Context(), params.Variables)

	result := h.exec(ctx, &params)
	writeResponse(httpResponse{
		Data:   result.Data,
		Errors: convertErrors(result.Errors),
	})
}

func (h *httpHandler) execute(ctx context.Context, req *Request) *gqlgo.Result {
	return gqlgo.Do(gqlgo.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// convertErrors keeps the code and kind resolvers attached to their errors.
// Validation errors raised by graphql-go itself carry no extensions and are
// reported as Unknown.
func convertErrors(errs []gqlerrors.FormattedError) []*jerrors.Error {
	if len(errs) == 0 {
		return nil
	}

	out := make([]*jerrors.Error, 0, len(errs))
	for _, fe := range errs {
		ext := &jerrors.Extension{Code: "Unknown"}
		if code, ok := fe.Extensions["code"].(string); ok {
			ext.Code = code
		}
		if kind, ok := fe.Extensions["kind"].(string); ok {
			ext.Kind = kind
		}

		paths := make([]string, 0, len(fe.Path))
		for _, p := range fe.Path {
			paths = append(paths, fmt.Sprint(p))
		}

		out = append(out, &jerrors.Error{
			Message:   fe.Message,
			Extension: ext,
			Paths:     paths,
		})
	}
	return out
}

// LoggingMiddleware logs every request with its duration and error count.
func LoggingMiddleware(logger *zap.Logger) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) *gqlgo.Result {
			start := time.Now()
			result := next(ctx, req)

			fields := []zap.Field{
				zap.String("operation_name", req.OperationName),
				zap.Duration("latency", time.Since(start)),
				zap.Int("errors", len(result.Errors)),
			}
			if result.HasErrors() {
				logger.Info("GraphQL request failed", append(fields, zap.String("error", result.Errors[0].Message))...)
				return result
			}
			logger.Debug("GraphQL request", fields...)
			return result
		}
	}
}

// ExtractVariables is used to returns the variables received as part of the graphql request.
// This is intended to be used from within the middlewares and resolvers.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	return engine.Variables(ctx)
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return engine.WithVariables(ctx, v)
}

// playgroundHTML loads GraphiQL from a CDN.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>%s</title>
    <style>
        body {
            height: 100%%;
            margin: 0;
            overflow: hidden;
        }
        #graphiql {
            height: 100vh;
        }
    </style>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@1.4.0/graphiql.min.css" />
    <script src="https://unpkg.com/react@16.14.0/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@16.14.0/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@1.4.0/graphiql.min.js"></script>
</head>
<body>
    <div id="graphiql">Loading...</div>
    <script>
      // The GraphQL fetcher posts to the graphqlEndpoint.
      function graphQLFetcher(graphQLParams) {
        return fetch(
          '%s',
          {
            method: 'post',
            headers: {
              Accept: 'application/json',
              'Content-Type': 'application/json',
            },
            body: JSON.stringify(graphQLParams),
            credentials: 'omit',
          },
        ).then(function (response) {
          return response.json().catch(function () {
            return response.text();
          });
        });
      }

      ReactDOM.render(
        React.createElement(GraphiQL, {
          fetcher: graphQLFetcher,
        }),
        document.getElementById('graphiql'),
      );
    </script>
</body>
</html>`

// PlaygroundHandler serves a GraphiQL page for trying out mutations against
// graphqlEndpoint.
//
// The graphqlEndpoint is typically "/graphql" (the path where
// HTTPHandler is mounted).
//
// Typical usage in main():
//
//	r.Handle("/graphql", entityinput.HTTPHandler(e.Schema()))
//	r.Handle("/", entityinput.PlaygroundHandler("Entity Input Playground", "/graphql"))
func PlaygroundHandler(title, graphqlEndpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = fmt.Fprintf(w, playgroundHTML, title, graphqlEndpoint)
	})
}
