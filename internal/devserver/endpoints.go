package devserver

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/topcv/jobboard"
	"github.com/xeipuuv/gojsonschema"
)

// apiResponse is the envelope every response is wrapped in.
type apiResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

type inboundRequest struct {
	W                   http.ResponseWriter
	R                   *http.Request
	ReqBodySchemaLoader gojsonschema.JSONLoader
	ReqBodyObj          interface{}
	EndpointLogic       func() (interface{}, error)
	SuccessCode         int
}

func (s *Server) readAndValidateRequestBody(
	w http.ResponseWriter,
	r *http.Request,
	bodySchemaLoader gojsonschema.JSONLoader,
	bodyObj interface{},
) bool {
	defer r.Body.Close()
	bodyBytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		s.logger.Debug().Err(err).Msg("error reading request body")
		s.writeError(
			w,
			&jobboard.ErrBadRequest{
				Code:    jobboard.CodeInvalidRequestBody,
				Message: "Could not read request body.",
			},
		)
		return false
	}
	if bodySchemaLoader != nil {
		validationResult, err := gojsonschema.Validate(
			bodySchemaLoader,
			gojsonschema.NewBytesLoader(bodyBytes),
		)
		if err != nil {
			s.logger.Debug().Err(err).Msg("error validating request body")
			s.writeError(
				w,
				&jobboard.ErrBadRequest{
					Code:    jobboard.CodeInvalidRequestBody,
					Message: "Could not validate request body.",
				},
			)
			return false
		}
		if !validationResult.Valid() {
			verrStrs := make([]string, len(validationResult.Errors()))
			for i, verr := range validationResult.Errors() {
				verrStrs[i] = verr.String()
			}
			s.writeError(
				w,
				&jobboard.ErrBadRequest{
					Code: jobboard.CodeInvalidRequestBody,
					Message: "Request body failed JSON validation: " +
						strings.Join(verrStrs, "; "),
				},
			)
			return false
		}
	}
	if bodyObj != nil {
		if err = json.Unmarshal(bodyBytes, bodyObj); err != nil {
			s.logger.Error().Err(err).Msg("error unmarshaling request body")
			s.writeError(w, &jobboard.ErrInternalServer{
				Code:    jobboard.CodeUncategorized,
				Message: "Uncategorized error",
			})
			return false
		}
	}
	return true
}

func (s *Server) serveRequest(req inboundRequest) {
	if req.ReqBodySchemaLoader != nil || req.ReqBodyObj != nil {
		if !s.readAndValidateRequestBody(
			req.W,
			req.R,
			req.ReqBodySchemaLoader,
			req.ReqBodyObj,
		) {
			return
		}
	}
	respBodyObj, err := req.EndpointLogic()
	if err != nil {
		s.writeError(req.W, err)
		return
	}
	s.writeAPIResponse(
		req.W,
		req.SuccessCode,
		apiResponse{Code: jobboard.CodeSuccess, Result: respBodyObj},
	)
}

// writeError selects a status for err the same way the client interprets
// one. Errors that are not typed API errors are logged and hidden.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var statusCode, code int
	var msg string
	switch e := errors.Cause(err).(type) {
	case *jobboard.ErrAuthentication:
		statusCode, code, msg = http.StatusUnauthorized, e.Code, e.Message
	case *jobboard.ErrTokenExpired:
		statusCode, code, msg = http.StatusUnauthorized, e.Code, e.Message
	case *jobboard.ErrAuthorization:
		statusCode, code, msg = http.StatusForbidden, e.Code, e.Message
	case *jobboard.ErrBadRequest:
		statusCode, code, msg = http.StatusBadRequest, e.Code, e.Message
	case *jobboard.ErrNotFound:
		statusCode, code, msg = http.StatusNotFound, e.Code, e.Message
	case *jobboard.ErrConflict:
		statusCode, code, msg = http.StatusConflict, e.Code, e.Message
	case *jobboard.ErrTooManyRequests:
		statusCode, code, msg = http.StatusTooManyRequests, e.Code, e.Message
	case *jobboard.ErrInternalServer:
		statusCode, code, msg = http.StatusInternalServerError, e.Code, e.Message
	default:
		s.logger.Error().Err(err).Msg("unhandled error")
		statusCode = http.StatusInternalServerError
		code, msg = jobboard.CodeUncategorized, "Uncategorized error"
	}
	s.writeAPIResponse(w, statusCode, apiResponse{Code: code, Message: msg})
}

func (s *Server) writeAPIResponse(
	w http.ResponseWriter,
	statusCode int,
	response apiResponse,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, err := json.Marshal(response)
	if err != nil {
		s.logger.Error().Err(err).Msg("error marshaling response body")
	}
	if _, err := w.Write(responseBody); err != nil {
		s.logger.Error().Err(err).Msg("error writing response body")
	}
}
