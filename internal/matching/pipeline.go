// Package matching compara un avistamiento nuevo contra los casos abiertos
// usando un oráculo de similitud externo.
package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"regresa/internal/domain/lostpets"
	"regresa/internal/domain/matches"
	"regresa/internal/platform/logger"
	"regresa/internal/platform/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultThreshold   = 0.6
	DefaultTopN        = 5
	DefaultWindow      = 5 * time.Minute
	DefaultConcurrency = 4
	DefaultMaxCands    = 50
	DefaultCallTimeout = 15 * time.Second

	// Reason es la nota con la que se guarda cada coincidencia.
	Reason = "match detected by image analysis"
)

var ErrImageRequired = errors.New("image is required")

// CandidateSource entrega los casos abiertos con imagen, más recientes primero.
type CandidateSource interface {
	ListCandidates(ctx context.Context, max int) ([]lostpets.LostPet, error)
}

// SightingLocator resuelve el avistamiento de la ventana legacy.
type SightingLocator interface {
	LatestWithin(ctx context.Context, window time.Duration) (string, bool, error)
}

type MatchRecorder interface {
	Record(ctx context.Context, in matches.RecordInput) (matches.Match, error)
}

type Options struct {
	Concurrency   int
	MaxCandidates int
	CallTimeout   time.Duration
	Threshold     float64
	TopN          int
	Window        time.Duration
}

func (o Options) withDefaults() Options {
	if o.Concurrency < 1 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxCandidates < 1 {
		o.MaxCandidates = DefaultMaxCands
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.TopN < 1 {
		o.TopN = DefaultTopN
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	return o
}

type Pipeline struct {
	candidates CandidateSource
	sightings  SightingLocator
	recorder   MatchRecorder
	oracle     Oracle

	opts    Options
	log     logger.Logger
	metrics *metrics.Metrics
}

type Deps struct {
	Candidates CandidateSource
	Sightings  SightingLocator
	Recorder   MatchRecorder
	Oracle     Oracle
	Logger     logger.Logger
	Metrics    *metrics.Metrics
}

func NewPipeline(d Deps, opts Options) *Pipeline {
	if d.Oracle == nil {
		d.Oracle = Disabled{}
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	return &Pipeline{
		candidates: d.Candidates,
		sightings:  d.Sightings,
		recorder:   d.Recorder,
		oracle:     d.Oracle,
		opts:       opts.withDefaults(),
		log:        d.Logger.With(map[string]any{"module": "matching"}),
		metrics:    d.Metrics,
	}
}

type Input struct {
	// Image es la imagen del avistamiento: data URL, URL http(s) o texto.
	Image string
	// SightingID vacío activa la ventana legacy.
	SightingID string
}

type Result struct {
	LostPet    lostpets.LostPet
	Confidence float64
	Reason     string
}

// Run ejecuta selección, puntuación, ranking y persistencia.
// Los fallos por candidato o por persistencia se registran y se omiten;
// solo falla si no se pueden leer los candidatos o si se cancela el contexto.
func (p *Pipeline) Run(ctx context.Context, in Input) ([]Result, error) {
	if strings.TrimSpace(in.Image) == "" {
		return nil, ErrImageRequired
	}

	cands, err := p.candidates.ListCandidates(ctx, p.opts.MaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	p.metrics.ObserveCandidates(len(cands))
	if len(cands) == 0 {
		return []Result{}, nil
	}

	data, mime, url, err := DecodeImage(in.Image)
	if err != nil {
		// Se sigue solo con la representación textual.
		p.log.Warn("image not decodable, sending text only", map[string]any{"error": err})
	}

	scores := p.score(ctx, in.Image, data, mime, url, cands)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accepted := make([]Result, 0)
	for i, s := range scores {
		if s < 0 {
			continue
		}
		accepted = append(accepted, Result{
			LostPet:    cands[i],
			Confidence: s,
			Reason:     Reason,
		})
	}
	// Estable: empates conservan el orden de candidatos (más reciente primero).
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Confidence > accepted[j].Confidence
	})

	p.persist(ctx, in.SightingID, accepted)

	if len(accepted) > p.opts.TopN {
		accepted = accepted[:p.opts.TopN]
	}
	return accepted, nil
}

// score devuelve un puntaje por candidato (mismo índice); -1 = descartado.
func (p *Pipeline) score(ctx context.Context, image string, data []byte, mime, url string, cands []lostpets.LostPet) []float64 {
	scores := make([]float64, len(cands))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)

	for i, c := range cands {
		scores[i] = -1
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
			defer cancel()

			start := time.Now()
			reply, err := p.oracle.Compare(callCtx, Request{
				System:            Rubric,
				Prompt:            BuildPrompt(image, c),
				Image:             data,
				ImageMIME:         mime,
				ImageURL:          url,
				CandidateImageURL: c.ImageURL,
				Temperature:       Temperature,
				MaxOutputTokens:   MaxOutputTokens,
			})
			elapsed := time.Since(start)
			if err != nil {
				p.metrics.ObserveOracleCall("error", elapsed)
				p.log.Warn("oracle call failed", map[string]any{"lost_pet_id": c.ID, "error": err})
				return nil
			}

			v, err := ParseConfidence(reply)
			if err != nil {
				p.metrics.ObserveOracleCall("unparsable", elapsed)
				p.log.Debug("oracle reply discarded", map[string]any{"lost_pet_id": c.ID, "error": err})
				return nil
			}
			if v < p.opts.Threshold {
				p.metrics.ObserveOracleCall("rejected", elapsed)
				return nil
			}

			p.metrics.ObserveOracleCall("accepted", elapsed)
			p.metrics.MatchAccepted()
			scores[i] = v
			return nil
		})
	}
	_ = g.Wait()

	return scores
}

// persist guarda todas las coincidencias aceptadas contra el avistamiento destino.
// La respuesta no depende del resultado.
func (p *Pipeline) persist(ctx context.Context, sightingID string, accepted []Result) {
	if len(accepted) == 0 || p.recorder == nil {
		return
	}

	sightingID = strings.TrimSpace(sightingID)
	if sightingID == "" {
		sightingID = p.legacySighting(ctx)
	}
	if sightingID == "" {
		p.metrics.MatchRunUnlinked()
		p.log.Info("matches not linked to any sighting", map[string]any{"accepted": len(accepted)})
		return
	}

	for _, r := range accepted {
		_, err := p.recorder.Record(ctx, matches.RecordInput{
			LostPetID:  r.LostPet.ID,
			SightingID: sightingID,
			Confidence: r.Confidence,
			Notes:      r.Reason,
		})
		if err != nil {
			p.metrics.MatchPersistFailed()
			p.log.Warn("persist match failed", map[string]any{
				"lost_pet_id": r.LostPet.ID,
				"sighting_id": sightingID,
				"error":       err,
			})
		}
	}
}

func (p *Pipeline) legacySighting(ctx context.Context) string {
	if p.sightings == nil {
		return ""
	}
	id, ok, err := p.sightings.LatestWithin(ctx, p.opts.Window)
	if err != nil {
		p.log.Warn("resolve recent sighting failed", map[string]any{"error": err})
		return ""
	}
	if !ok {
		return ""
	}
	return id
}
