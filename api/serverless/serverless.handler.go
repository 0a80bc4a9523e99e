// FilePath: api/serverless/serverless.handler.go
package serverless

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// Handler serves the snapshot query behind API Gateway
type Handler struct {
	Service *service.Service
}

func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	requestID := nuts.NID("req", 12)

	defer func() {
		if r := recover(); r != nil {
			nuts.L.Errorf("[Lambda] Panic recovered [%s]: %v", requestID, r)
			resp = textResponse(http.StatusInternalServerError, "Internal Server Error", requestID)
			err = nil
		}
	}()

	snapshot, err := h.Service.LatestSnapshot(ctx, req.PathParameters["deviceId"])
	if err != nil {
		apiErr, ok := errors.As(err)
		if !ok {
			apiErr = errors.NewInternalError(service.MsgBackendFailure, err)
		}
		if apiErr.Code >= http.StatusInternalServerError {
			nuts.L.Errorf("[Lambda] %s [%s]", apiErr.Error(), requestID)
		}
		return textResponse(apiErr.Code, apiErr.Message, requestID), nil
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		nuts.L.Errorf("[Lambda] Failed to encode snapshot [%s]: %v", requestID, err)
		return textResponse(http.StatusInternalServerError, service.MsgBackendFailure, requestID), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"X-Request-ID": requestID,
		},
		Body: string(body),
	}, nil
}

func textResponse(code int, msg, requestID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
			"X-Request-ID": requestID,
		},
		Body: msg,
	}
}
