package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-velocity/internal/application/analytics"
	"github.com/jhoicas/Inventario-velocity/internal/application/dto"
	"github.com/jhoicas/Inventario-velocity/internal/domain"
	"github.com/jhoicas/Inventario-velocity/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-velocity/pkg/config"
	"github.com/jhoicas/Inventario-velocity/pkg/logger"
	"github.com/jhoicas/Inventario-velocity/pkg/tracing"
)

// options flags de la línea de comandos.
type options struct {
	companyID     string
	warehouseID   string
	startDate     string
	endDate       string
	categoryIDs   []string
	lookbackDays  int
	planningDays  int
	minStockRules string
	output        string
	pretty        bool
	migrate       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "inventario-velocity",
		Short: "Reporte de velocidad de venta y rentabilidad por categoría",
		Long: "Calcula la velocidad de venta FIFO de cada producto vendido en el período, " +
			"la agrega por categoría y proyecta el stock mínimo. Escribe el reporte en JSON.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.companyID, "company", "", "ID de la empresa (obligatorio)")
	f.StringVar(&opts.warehouseID, "warehouse", "", "ID de la bodega; vacío = todas")
	f.StringVar(&opts.startDate, "start", "", "inicio del período YYYY-MM-DD; por defecto primer día del mes")
	f.StringVar(&opts.endDate, "end", "", "fin del período YYYY-MM-DD (inclusivo); por defecto hoy")
	f.StringSliceVar(&opts.categoryIDs, "category", nil, "categoría a incluir con sus descendientes (repetible)")
	f.IntVar(&opts.lookbackDays, "lookback-days", -1, "días de historial antes del período; -1 = REPORT_LOOKBACK_DAYS")
	f.IntVar(&opts.planningDays, "planning-days", -1, "horizonte de stock mínimo en días; -1 = REPORT_PLANNING_DAYS")
	f.StringVar(&opts.minStockRules, "min-stock-rules", "", `archivo JSON [{"category_id": "...", "min_stock": 5}]`)
	f.StringVarP(&opts.output, "output", "o", "-", "archivo de salida; - = stdout")
	f.BoolVar(&opts.pretty, "pretty", false, "JSON indentado")
	f.BoolVar(&opts.migrate, "migrate", false, "aplicar migraciones antes de generar el reporte")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando reporte")

	req, err := buildRequest(opts)
	if err != nil {
		log.Error().Err(err).Msg("parámetros inválidos")
		return err
	}

	shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Error().Err(err).Msg("configurar trazas")
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("cerrar trazas")
		}
	}()

	if opts.migrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			log.Error().Err(err).Msg("migraciones fallidas")
			return err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	metrics := analytics.NewMetrics(registry)
	if path := cfg.Metrics.TextfilePath; path != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(path, registry); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("escribir métricas")
			}
		}()
	}

	uc := analytics.NewVelocityReportUseCase(
		postgres.NewAnalyticsRepository(pool),
		postgres.NewInventoryMovementRepository(pool),
		postgres.NewCategoryRepository(pool),
		analytics.Config{
			LookbackDays: cfg.Report.LookbackDays,
			PlanningDays: cfg.Report.PlanningDays,
			Workers:      cfg.Report.Workers,
		},
		log,
		metrics,
	)

	report, err := uc.Generate(ctx, req, func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("progreso")
	})
	if err != nil {
		return err
	}

	return writeReport(report, opts, stdout)
}

// buildRequest traduce los flags a la solicitud del caso de uso.
func buildRequest(opts *options) (dto.VelocityReportRequest, error) {
	req := dto.VelocityReportRequest{
		CompanyID:   opts.companyID,
		WarehouseID: opts.warehouseID,
		CategoryIDs: opts.categoryIDs,
		StartDate:   opts.startDate,
		EndDate:     opts.endDate,
	}
	if opts.lookbackDays >= 0 {
		v := opts.lookbackDays
		req.LookbackDays = &v
	}
	if opts.planningDays >= 0 {
		v := opts.planningDays
		req.PlanningDays = &v
	}
	if opts.minStockRules != "" {
		rules, err := loadMinStockRules(opts.minStockRules)
		if err != nil {
			return dto.VelocityReportRequest{}, err
		}
		req.MinStockRules = rules
	}
	return req, nil
}

func loadMinStockRules(path string) ([]dto.MinStockRuleDTO, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer reglas de stock mínimo: %w", err)
	}
	var rules []dto.MinStockRuleDTO
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("reglas de stock mínimo %s: %v: %w", path, err, domain.ErrInvalidInput)
	}
	return rules, nil
}

func writeReport(report *dto.VelocityReportDTO, opts *options, stdout io.Writer) error {
	w := stdout
	if opts.output != "" && opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("crear %s: %w", opts.output, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("escribir reporte: %w", err)
	}
	return nil
}
