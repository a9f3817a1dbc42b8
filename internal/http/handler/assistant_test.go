package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/http/handler"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
)

var _ = Describe("AssistantHandler", func() {
	var (
		router *gin.Engine
		svc    *mockAssistant
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockAssistant{}
		h := handler.NewAssistantHandler(svc)
		router.POST("/evaluate_facilities", h.EvaluateFacilities)
		router.POST("/api/extract-threat-info", h.ExtractThreat)
		router.POST("/api/geocode", h.Geocode)
	})

	Describe("EvaluateFacilities", func() {
		It("returns the selection", func() {
			var got []model.Facility
			svc.evaluateFn = func(_ context.Context, f []model.Facility) (model.FacilitySelection, error) {
				got = f
				return model.FacilitySelection{SelectedIndex: 1, Reason: "Tier 1 hospital"}, nil
			}

			w := perform(router, http.MethodPost, "/evaluate_facilities",
				`{"facilities":[{"name":"A","types":["pharmacy"],"distance":100},{"name":"B","types":["hospital"],"distance":900}]}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"selected_index":1,"reason":"Tier 1 hospital"}`))
			Expect(got).To(HaveLen(2))
			Expect(got[1].Types).To(Equal([]string{"hospital"}))
		})

		It("rejects an empty list", func() {
			w := perform(router, http.MethodPost, "/evaluate_facilities", `{"facilities":[]}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"No facilities provided"}`))
		})
	})

	Describe("ExtractThreat", func() {
		It("returns the extracted fields", func() {
			svc.extractFn = func(_ context.Context, text string) (model.ExtractedThreat, error) {
				Expect(text).To(Equal("Blast in Peenya"))
				return model.ExtractedThreat{Name: "Explosion", LocationName: "Peenya", Details: "d", Yield: 3, DurationMinutes: 60}, nil
			}

			w := perform(router, http.MethodPost, "/api/extract-threat-info", `{"text":"Blast in Peenya"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"locationName":"Peenya"`))
		})

		DescribeTable("maps errors",
			func(body string, err error, status int, expected string) {
				svc.extractFn = func(context.Context, string) (model.ExtractedThreat, error) {
					return model.ExtractedThreat{}, err
				}
				w := perform(router, http.MethodPost, "/api/extract-threat-info", body)
				Expect(w.Code).To(Equal(status))
				Expect(w.Body.String()).To(MatchJSON(expected))
			},
			Entry("missing text", `{}`, nil, http.StatusBadRequest, `{"error":"No text provided"}`),
			Entry("no model", `{"text":"x"}`, service.ErrAIUnavailable, http.StatusServiceUnavailable, `{"error":"AI service unavailable"}`),
			Entry("bad JSON from model", `{"text":"x"}`, fmt.Errorf("%w: eof", service.ErrInvalidAIOutput), http.StatusInternalServerError, `{"error":"Invalid JSON from AI"}`),
			Entry("provider failure", `{"text":"x"}`, errors.New("upstream 502"), http.StatusInternalServerError, `{"error":"upstream 502"}`),
		)
	})

	Describe("Geocode", func() {
		It("returns lat and lng", func() {
			svc.geocodeFn = func(context.Context, string) (model.Coordinates, error) {
				return model.Coordinates{Lat: 12.97, Lng: 77.59}, nil
			}

			w := perform(router, http.MethodPost, "/api/geocode", `{"locationName":"Bengaluru"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"lat":12.97,"lng":77.59}`))
		})

		DescribeTable("maps errors",
			func(body string, err error, status int, expected string) {
				svc.geocodeFn = func(context.Context, string) (model.Coordinates, error) {
					return model.Coordinates{}, err
				}
				w := perform(router, http.MethodPost, "/api/geocode", body)
				Expect(w.Code).To(Equal(status))
				Expect(w.Body.String()).To(MatchJSON(expected))
			},
			Entry("missing name", `{"locationName":""}`, nil, http.StatusBadRequest, `{"error":"No locationName provided"}`),
			Entry("no model", `{"locationName":"x"}`, service.ErrAIUnavailable, http.StatusServiceUnavailable, `{"error":"AI service unavailable"}`),
			Entry("invalid format", `{"locationName":"x"}`, service.ErrInvalidAIOutput, http.StatusInternalServerError, `{"error":"AI returned invalid format"}`),
		)
	})
})
