package application

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/session-ctx-cli/internal/compact"
	"github.com/bnema/session-ctx-cli/internal/domain"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/bnema/session-ctx-cli/internal/ports"
)

const (
	defaultBenchSessions   = 20
	defaultBenchIterations = 50
)

type BenchOptions struct {
	Sessions   int
	Iterations int
}

type BenchTiming struct {
	Label   string
	Average time.Duration
}

type BenchReport struct {
	Sessions   int
	Iterations int
	Timings    []BenchTiming
	Comparison Comparison
}

// BenchService times the codecs over a synthetic document and compares the
// serialized size of every rendition.
type BenchService struct {
	encoder ports.DocumentEncoder
}

func NewBenchService(encoder ports.DocumentEncoder) *BenchService {
	return &BenchService{encoder: encoder}
}

func (s *BenchService) Run(opts BenchOptions) (BenchReport, error) {
	if opts.Sessions <= 0 {
		opts.Sessions = defaultBenchSessions
	}
	if opts.Iterations <= 0 {
		opts.Iterations = defaultBenchIterations
	}

	doc := GenerateDocument(opts.Sessions)
	archive, _ := layered.Encode(doc)
	minified := compact.Minify(doc)

	timings := []BenchTiming{
		{Label: "layered encode", Average: timePerIteration(opts.Iterations, func() {
			_, _ = layered.Encode(doc)
		})},
		{Label: "layered decode", Average: timePerIteration(opts.Iterations, func() {
			_, _, _ = layered.Decode(archive)
		})},
		{Label: "compact minify", Average: timePerIteration(opts.Iterations, func() {
			_ = compact.Minify(doc)
		})},
		{Label: "compact expand", Average: timePerIteration(opts.Iterations, func() {
			_ = compact.Expand(minified)
		})},
	}

	pretty, err := s.encoder.EncodeDocument(doc, true)
	if err != nil {
		return BenchReport{}, fmt.Errorf("encode pretty document: %w", err)
	}
	plain, err := s.encoder.EncodeDocument(doc, false)
	if err != nil {
		return BenchReport{}, fmt.Errorf("encode minified document: %w", err)
	}
	compactData, err := json.Marshal(minified)
	if err != nil {
		return BenchReport{}, fmt.Errorf("encode compact archive: %w", err)
	}
	layeredData, err := json.Marshal(archive)
	if err != nil {
		return BenchReport{}, fmt.Errorf("encode layered archive: %w", err)
	}

	baseline := int64(len(pretty))
	comparison := Comparison{Entries: []FormatEntry{
		formatEntry("v1 pretty", baseline, baseline),
		formatEntry("v1 minified", int64(len(plain)), baseline),
		formatEntry("compact", int64(len(compactData)), baseline),
		formatEntry("layered archive", int64(len(layeredData)), baseline),
	}}

	return BenchReport{
		Sessions:   opts.Sessions,
		Iterations: opts.Iterations,
		Timings:    timings,
		Comparison: comparison,
	}, nil
}

func timePerIteration(iterations int, fn func()) time.Duration {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}

	return time.Since(start) / time.Duration(iterations)
}

var benchGoals = []string{
	"setup_backend_infrastructure",
	"implement_user_authentication_system",
	"build_data_ingestion_pipeline",
	"create_analytics_dashboard",
	"add_real_time_processing",
	"implement_machine_learning_models",
	"build_api_gateway",
	"add_caching_and_optimization",
	"implement_monitoring_alerting",
	"create_admin_management_panel",
}

var benchDecisions = []domain.Decision{
	{
		What:         "nextjs_react_framework",
		Why:          "server_side_rendering_fast_development_strong_ecosystem",
		Alternatives: []string{"vue_nuxt", "svelte_kit", "angular"},
	},
	{
		What:         "postgresql_with_timescaledb",
		Why:          "time_series_data_relational_integrity_proven_scalability",
		Alternatives: []string{"mongodb", "cassandra", "mysql_with_clickhouse"},
	},
	{
		What:         "redis_distributed_cache",
		Why:          "in_memory_speed_pub_sub_support_data_structures",
		Alternatives: []string{"memcached", "hazelcast", "in_process_cache"},
	},
	{
		What:         "jwt_oauth2_authentication",
		Why:          "stateless_industry_standard_mobile_friendly_scalable",
		Alternatives: []string{"session_based_auth", "saml", "passwordless"},
	},
	{
		What:         "docker_kubernetes_deployment",
		Why:          "container_orchestration_auto_scaling_cloud_native",
		Alternatives: []string{"docker_swarm", "nomad", "bare_metal_systemd"},
	},
	{
		What:         "apache_kafka_event_streaming",
		Why:          "high_throughput_fault_tolerant_real_time_processing",
		Alternatives: []string{"rabbitmq", "pulsar", "aws_kinesis"},
	},
}

var benchFiles = []struct {
	path   string
	action domain.FileAction
	role   string
}{
	{"src/backend/api/routes/users.go", domain.ActionCreated, "user_management_crud_endpoints"},
	{"src/backend/api/routes/analytics.go", domain.ActionCreated, "analytics_data_endpoints"},
	{"src/backend/services/auth.go", domain.ActionCreated, "authentication_authorization_logic"},
	{"src/backend/services/processor.go", domain.ActionCreated, "data_transformation_processing"},
	{"src/backend/models/user.go", domain.ActionCreated, "user_database_model"},
	{"src/frontend/pages/dashboard.tsx", domain.ActionCreated, "main_dashboard_interface"},
	{"src/frontend/components/LineChart.tsx", domain.ActionCreated, "time_series_visualization"},
	{"config/database.yaml", domain.ActionCreated, "database_connection_configuration"},
	{"docker-compose.yml", domain.ActionModified, "container_orchestration_setup"},
}

var benchDeps = []string{"chi", "pgx", "redis", "jwt", "kafka-go"}

// GenerateDocument builds a deterministic multi-session document with
// realistic entity reuse across sessions, so the string table and the
// entity dedup actually have something to deduplicate.
func GenerateDocument(sessions int) domain.Document {
	doc := domain.Document{
		Version: domain.DocumentVersion,
		Project: "ai-powered-analytics-platform",
		Created: "2025-01-01T10:00:00Z",
		Updated: "2025-01-15T16:30:00Z",
	}

	for i := 0; i < sessions; i++ {
		last := i == sessions-1
		session := domain.Session{
			ID:        fmt.Sprintf("s%d", i+1),
			Start:     fmt.Sprintf("2025-01-%02dT09:00:00Z", i%27+1),
			Goal:      benchGoals[i%len(benchGoals)],
			State:     domain.SessionCompleted,
			Decisions: []domain.Decision{},
			Files:     map[string]domain.FileChange{},
			Patterns: map[string]string{
				"api_structure":  "layered_architecture_with_dependency_injection",
				"error_handling": "sentinel_errors_with_wrapped_context",
				"testing":        "table_driven_unit_and_integration_tests",
			},
			Blockers:  []domain.Blocker{},
			NextSteps: []string{},
			KV: map[string]string{
				"go_version":     "1.25",
				"ci_cd_platform": "github_actions",
				"cloud_provider": "aws",
			},
		}
		if last {
			session.State = domain.SessionInProgress
			session.NextSteps = []string{
				"complete_unit_test_coverage_for_auth_module",
				"implement_rate_limiting_on_api_endpoints",
				"update_api_documentation_with_examples",
			}
		} else {
			session.End = fmt.Sprintf("2025-01-%02dT18:30:00Z", i%27+1)
		}

		for j := 0; j < 2+i%4; j++ {
			decision := benchDecisions[(i*3+j)%len(benchDecisions)]
			decision.ID = fmt.Sprintf("d%d", i*10+j+1)
			decision.Impact = []string{
				fmt.Sprintf("src/backend/services/%s.go", decision.What),
				fmt.Sprintf("config/%s.yaml", decision.What),
			}
			session.Decisions = append(session.Decisions, decision)
		}

		for j := 0; j < 4+i%5; j++ {
			entry := benchFiles[j%len(benchFiles)]
			status := domain.StatusComplete
			if j == 3+i%5 {
				status = domain.StatusPartial
			}
			session.Files[entry.path] = domain.FileChange{
				Action: entry.action,
				Role:   entry.role,
				Deps:   benchDeps[:j%3+2],
				Status: status,
			}
		}

		if i%3 == 0 && last {
			session.Blockers = append(session.Blockers, domain.Blocker{
				ID:     fmt.Sprintf("b%d", i+1),
				Desc:   "waiting_for_security_review_of_authentication_implementation",
				Status: domain.BlockerOpen,
			})
		}

		doc.Sessions = append(doc.Sessions, session)
	}

	return doc
}
