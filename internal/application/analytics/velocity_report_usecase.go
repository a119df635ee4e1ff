// Package analytics contiene los casos de uso de reportes de negocio: velocidad de venta
// por producto y rentabilidad agregada por categoría.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-velocity/internal/application/dto"
	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/domain/category"
	"github.com/jhoicas/Inventario-velocity/internal/domain/entity"
	"github.com/jhoicas/Inventario-velocity/internal/domain/forecast"
	"github.com/jhoicas/Inventario-velocity/internal/domain/repository"
	"github.com/jhoicas/Inventario-velocity/internal/domain/velocity"
	"github.com/jhoicas/Inventario-velocity/pkg/logger"
)

const (
	defaultLookbackDays = 5 * 365
	defaultPlanningDays = 30
	defaultWorkers      = 8

	tracerName = "github.com/jhoicas/Inventario-velocity/internal/application/analytics"
)

// Motivos de descarte usados como etiqueta de métricas y en el diagnóstico del reporte.
const (
	ReasonZeroQuantity     = "zero_quantity"
	ReasonMissingTimestamp = "missing_timestamp"
	ReasonUnknownKind      = "unknown_kind"
	ReasonOther            = "other"
)

// ProgressFunc recibe el avance tras cada producto. Las llamadas se serializan y done es creciente.
type ProgressFunc func(done, total int)

// Config valores por defecto del reporte.
type Config struct {
	LookbackDays int              // 0 = cinco años
	PlanningDays int              // 0 = 30 días
	Workers      int              // productos procesados en paralelo
	Clock        func() time.Time // nil = time.Now
}

// VelocityReportUseCase arma el reporte de velocidad de venta y rentabilidad por categoría.
//
// Fuentes: AnalyticsRepository (ventas del período), InventoryMovementRepository (historial
// por producto) y CategoryRepository (árbol de categorías, leído una vez por corrida).
type VelocityReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	movementRepo  repository.InventoryMovementRepository
	categoryRepo  repository.CategoryRepository
	cfg           Config
	log           *logger.Logger
	metrics       *Metrics
	tracer        trace.Tracer
}

// NewVelocityReportUseCase construye el caso de uso. log y metrics pueden ser nil.
func NewVelocityReportUseCase(
	analyticsRepo repository.AnalyticsRepository,
	movementRepo repository.InventoryMovementRepository,
	categoryRepo repository.CategoryRepository,
	cfg Config,
	log *logger.Logger,
	metrics *Metrics,
) *VelocityReportUseCase {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if cfg.PlanningDays <= 0 {
		cfg.PlanningDays = defaultPlanningDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &VelocityReportUseCase{
		analyticsRepo: analyticsRepo,
		movementRepo:  movementRepo,
		categoryRepo:  categoryRepo,
		cfg:           cfg,
		log:           log,
		metrics:       metrics,
		tracer:        otel.Tracer(tracerName),
	}
}

// scoredItem resultado intermedio de un producto.
type scoredItem struct {
	item     entity.SoldItem
	estimate velocity.Result
	path     category.Path
	demand   decimal.Decimal
	minStock decimal.Decimal
	rejected []velocity.Rejection
}

// run parámetros resueltos de una corrida.
type run struct {
	id           string
	companyID    string
	warehouseID  string
	window       velocity.Window
	planningDays int
	rules        []entity.MinStockRule
	tree         *category.Tree
}

// Generate construye el reporte. La cancelación de ctx detiene el trabajo antes del siguiente
// producto y devuelve domain.ErrCancelled sin resultados parciales.
func (uc *VelocityReportUseCase) Generate(
	ctx context.Context,
	req dto.VelocityReportRequest,
	progress ProgressFunc,
) (*dto.VelocityReportDTO, error) {
	started := time.Now()

	r, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	ctx, span := uc.tracer.Start(ctx, "report.generate", trace.WithAttributes(
		attribute.String("run_id", r.id),
		attribute.String("company_id", r.companyID),
		attribute.Int("lookback_days", r.window.LookbackDays),
	))
	defer span.End()

	log := uc.log.With().Str("run_id", r.id).Str("company_id", r.companyID).Str("warehouse_id", r.warehouseID).Logger()
	log.Info().
		Time("start", r.window.Start).
		Time("end", r.window.End).
		Int("lookback_days", r.window.LookbackDays).
		Msg("generando reporte de velocidad")

	report, err := uc.generate(ctx, req, r, progress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrCancelled) {
			log.Warn().Msg("reporte cancelado")
		} else {
			log.Error().Err(err).Msg("reporte fallido")
		}
		return nil, err
	}

	elapsed := time.Since(started)
	uc.metrics.observeRun(elapsed.Seconds())
	log.Info().
		Int("items", len(report.Items)).
		Int("categories", len(report.Categories)).
		Dur("elapsed", elapsed).
		Msg("reporte generado")
	return report, nil
}

func (uc *VelocityReportUseCase) resolve(req dto.VelocityReportRequest) (run, error) {
	if req.CompanyID == "" {
		return run{}, fmt.Errorf("report: company_id requerido: %w", domain.ErrInvalidInput)
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate, uc.cfg.Clock())
	if err != nil {
		return run{}, fmt.Errorf("report: %v: %w", err, domain.ErrInvalidInput)
	}

	lookback := uc.cfg.LookbackDays
	if req.LookbackDays != nil {
		lookback = *req.LookbackDays
	}
	planning := uc.cfg.PlanningDays
	if req.PlanningDays != nil {
		planning = *req.PlanningDays
	}
	if lookback < 0 || planning < 0 {
		return run{}, fmt.Errorf("report: lookback_days y planning_days no pueden ser negativos: %w", domain.ErrInvalidInput)
	}

	rules := make([]entity.MinStockRule, 0, len(req.MinStockRules))
	for _, rule := range req.MinStockRules {
		if rule.CategoryID == "" || rule.MinStock < 0 {
			return run{}, fmt.Errorf("report: regla de stock mínimo inválida %+v: %w", rule, domain.ErrInvalidInput)
		}
		rules = append(rules, entity.MinStockRule{CategoryID: rule.CategoryID, MinStock: rule.MinStock})
	}

	return run{
		id:           uuid.New().String(),
		companyID:    req.CompanyID,
		warehouseID:  req.WarehouseID,
		window:       velocity.Window{Start: start, End: end, LookbackDays: lookback},
		planningDays: planning,
		rules:        rules,
	}, nil
}

func (uc *VelocityReportUseCase) generate(
	ctx context.Context,
	req dto.VelocityReportRequest,
	r run,
	progress ProgressFunc,
) (*dto.VelocityReportDTO, error) {
	// 1) Árbol de categorías, una vez por corrida
	records, err := uc.categoryRepo.ListCategories(ctx, r.companyID)
	if err != nil {
		return nil, fmt.Errorf("report: categorías: %w", err)
	}
	if records == nil {
		records = []entity.Category{}
	}
	tree, err := category.Build(records)
	if err != nil {
		return nil, fmt.Errorf("report: árbol de categorías: %w", err)
	}
	r.tree = tree
	stats := tree.Stats()
	uc.metrics.orphans(len(stats.Orphans))
	if len(stats.Orphans) > 0 || len(stats.Unreachable) > 0 || len(stats.Duplicates) > 0 {
		uc.log.Warn().
			Str("run_id", r.id).
			Strs("orphans", stats.Orphans).
			Strs("unreachable", stats.Unreachable).
			Strs("duplicates", stats.Duplicates).
			Msg("árbol de categorías con inconsistencias")
	}

	// 2) Productos vendidos en el período
	items, err := uc.analyticsRepo.ListSoldItems(ctx, repository.SoldItemsFilter{
		CompanyID:   r.companyID,
		WarehouseID: r.warehouseID,
		CategoryIDs: expandCategories(tree, req.CategoryIDs),
		StartDate:   r.window.Start,
		EndDate:     r.window.End,
	})
	if err != nil {
		return nil, fmt.Errorf("report: ventas: %w", err)
	}

	// 3) Velocidad por producto en paralelo; cada resultado conserva el índice de su producto
	scored, err := uc.scoreAll(ctx, r, items, progress)
	if err != nil {
		return nil, err
	}

	return uc.assemble(r, scored, len(items)), nil
}

func (uc *VelocityReportUseCase) scoreAll(
	ctx context.Context,
	r run,
	items []entity.SoldItem,
	progress ProgressFunc,
) ([]*scoredItem, error) {
	results := make([]*scoredItem, len(items))

	var mu sync.Mutex
	done := 0
	advance := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		uc.metrics.itemProcessed()
		if progress != nil {
			progress(done, len(items))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Workers)
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Sin unidades vendidas no entra al reporte
			if !items[i].Quantity.IsPositive() {
				advance()
				return nil
			}
			res, err := uc.scoreItem(gctx, r, items[i])
			if err != nil {
				return err
			}
			results[i] = res
			advance()
			return nil
		})
	}
	err := g.Wait()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (uc *VelocityReportUseCase) scoreItem(ctx context.Context, r run, item entity.SoldItem) (*scoredItem, error) {
	ctx, span := uc.tracer.Start(ctx, "report.score_item", trace.WithAttributes(
		attribute.String("product_id", item.ProductID),
	))
	defer span.End()

	raw, err := uc.movementRepo.ListMovements(ctx, r.companyID, item.ProductID, r.warehouseID, r.window.LookbackStart(), r.window.End)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("report: movimientos de %s: %w", item.ProductID, err)
	}
	if raw == nil {
		raw = []entity.RawMovement{}
	}

	events, rejected, err := velocity.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("report: normalizar %s: %w", item.ProductID, err)
	}
	for _, rj := range rejected {
		reason := RejectionReason(rj.Reason)
		uc.metrics.eventRejected(reason)
		uc.log.Debug().
			Str("run_id", r.id).
			Str("product_id", item.ProductID).
			Int("index", rj.Index).
			Str("reason", reason).
			Msg("movimiento descartado")
	}

	est, err := velocity.Estimate(events, r.window)
	if err != nil {
		return nil, fmt.Errorf("report: velocidad de %s: %w", item.ProductID, err)
	}
	uc.log.Debug().
		Str("run_id", r.id).
		Str("product_id", item.ProductID).
		Int("events", len(events)).
		Str("demand", est.DemandQuantity.String()).
		Str("velocity", est.Velocity.String()).
		Str("shortfall", est.Shortfall.String()).
		Msg("producto procesado")
	span.SetAttributes(attribute.String("velocity", est.Velocity.String()))

	path := r.tree.Resolve(item.CategoryID)
	demand := forecast.Demand(est.Velocity, r.planningDays)

	return &scoredItem{
		item:     item,
		estimate: est,
		path:     path,
		demand:   demand,
		minStock: forecast.MinStock(demand, r.rules, path.IDs()),
		rejected: rejected,
	}, nil
}

// assemble ordena los productos por ruta, agrega por categoría y arma el diagnóstico.
func (uc *VelocityReportUseCase) assemble(r run, scored []*scoredItem, total int) *dto.VelocityReportDTO {
	stats := r.tree.Stats()
	report := &dto.VelocityReportDTO{
		RunID: r.id,
		Period: dto.PeriodDTO{
			StartDate:     r.window.Start.Format("2006-01-02"),
			EndDate:       r.window.End.Format("2006-01-02"),
			LookbackStart: r.window.LookbackStart().Format("2006-01-02"),
		},
		LookbackDays: r.window.LookbackDays,
		PlanningDays: r.planningDays,
		Items:        make([]dto.ItemVelocityDTO, 0, len(scored)),
		Categories:   []dto.CategoryAggregateDTO{},
		Diagnostics: dto.ReportDiagnosticsDTO{
			RejectedEvents:        map[string]int{},
			OrphanCategories:      nonNil(stats.Orphans),
			UnreachableCategories: nonNil(stats.Unreachable),
			DuplicateCategories:   nonNil(stats.Duplicates),
		},
	}

	kept := make([]*scoredItem, 0, len(scored))
	for _, s := range scored {
		if s != nil {
			kept = append(kept, s)
		}
	}
	report.Diagnostics.SkippedItems = total - len(kept)

	// Orden por ruta de categoría; empate conserva el orden de la fuente de ventas
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].path.String() < kept[j].path.String()
	})

	agg := category.NewAggregator()
	for _, s := range kept {
		ids := s.path.IDs()
		if len(ids) == 0 {
			report.Diagnostics.UncategorizedItems++
		}
		if len(s.path) > report.MaxDepth {
			report.MaxDepth = len(s.path)
		}
		for _, rj := range s.rejected {
			report.Diagnostics.RejectedEvents[RejectionReason(rj.Reason)]++
		}
		agg.Add(ids, category.Metrics{
			Quantity: s.item.Quantity,
			Profit:   s.item.Profit,
			Velocity: s.estimate.Velocity,
		})
		report.Items = append(report.Items, toItemDTO(s))
	}

	// Categorías en preorden del árbol, solo las que recibieron productos
	totals := agg.Finalize()
	r.tree.Walk(func(n category.Node) bool {
		a, ok := totals[n.ID]
		if !ok {
			return true
		}
		report.Categories = append(report.Categories, dto.CategoryAggregateDTO{
			CategoryID:                   n.ID,
			Name:                         n.Name,
			Level:                        n.Level,
			Path:                         r.tree.Resolve(n.ID).String(),
			ItemCount:                    a.ItemCount,
			TotalQuantity:                a.TotalQuantity,
			AverageProfit:                a.AverageProfit,
			AverageVelocity:              a.AverageVelocity,
			AverageCombinedProfitability: a.AverageCombinedProfitability,
		})
		return true
	})
	return report
}

func toItemDTO(s *scoredItem) dto.ItemVelocityDTO {
	return dto.ItemVelocityDTO{
		ProductID:         s.item.ProductID,
		SKU:               s.item.SKU,
		Name:              s.item.Name,
		CategoryID:        s.item.CategoryID,
		CategoryPath:      s.path.String(),
		PathIDs:           s.path.IDs(),
		PathNames:         s.path.Names(),
		Quantity:          s.item.Quantity,
		Profit:            s.item.Profit,
		DemandQuantity:    s.estimate.DemandQuantity,
		WeightedDwellDays: s.estimate.WeightedDwellDays,
		Velocity:          s.estimate.Velocity,
		DisplayVelocity:   forecast.DisplayVelocity(s.estimate.Velocity),
		Forecast:          s.demand,
		MinStock:          s.minStock,
		Shortfall:         s.estimate.Shortfall,
		RejectedEvents:    len(s.rejected),
	}
}

// RejectionReason etiqueta estable para el motivo de descarte de un movimiento.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrZeroQuantity):
		return ReasonZeroQuantity
	case errors.Is(err, domain.ErrMissingTimestamp):
		return ReasonMissingTimestamp
	case errors.Is(err, domain.ErrUnknownKind):
		return ReasonUnknownKind
	default:
		return ReasonOther
	}
}

// expandCategories agrega los descendientes alcanzables de cada categoría pedida.
// Ids desconocidos se conservan para que la fuente los filtre por su cuenta.
func expandCategories(tree *category.Tree, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, c := range tree.Children(id) {
			visit(c.ID)
		}
	}
	for _, id := range ids {
		visit(id)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// parsePeriod convierte los strings de fecha en time.Time; aplica valores por defecto si están vacíos.
func parsePeriod(startStr, endStr string, now time.Time) (start, end time.Time, err error) {
	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date inválido: %w", err)
		}
		end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second) // inclusive hasta el final del día
	}

	if startStr == "" {
		// Primer día del mes actual
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date inválido: %w", err)
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date no puede ser posterior a end_date")
	}
	return start, end, nil
}
