package authz

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"
)

// Service answers (role, resource, action) policy questions. Which roles a
// caller actually holds in a tenant is the access verifier's business; the
// policy only says what each role may do.
type Service struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

type Config struct {
	ModelPath  string
	PolicyPath string
	Logger     *logrus.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.ModelPath == "" || cfg.PolicyPath == "" {
		return nil, fmt.Errorf("authz: model and policy paths are required")
	}

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policy: %w", err)
	}

	return &Service{enforcer: enf, logger: logger}, nil
}

// Allows reports whether the given role may perform action on resource.
func (s *Service) Allows(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ok, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce (%s, %s, %s): %w", role, resource, action, err)
	}
	return ok, nil
}

// RolesFor lists the policy roles granted the given (resource, action)
// pair. Used to produce "requires X or Y" denial reasons.
func (s *Service) RolesFor(resource, action string) []string {
	s.mu.RLock()
	subjects, err := s.enforcer.GetAllSubjects()
	s.mu.RUnlock()
	if err != nil {
		s.logger.WithError(err).Warn("failed to read policy subjects")
		return nil
	}

	var roles []string
	for _, role := range subjects {
		ok, err := s.Allows(role, resource, action)
		if err != nil {
			s.logger.WithError(err).Warn("policy check failed")
			continue
		}
		if ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// ObjectName builds the canonical resource identifier for a module-owned
// object, e.g. ObjectName("scheduling", "assignments") →
// "scheduling.assignments".
func ObjectName(module, object string) string {
	return module + "." + object
}

var (
	instance *Service
	initMu   sync.Mutex
)

// Setup installs the process-wide policy service.
func Setup(svc *Service) {
	initMu.Lock()
	defer initMu.Unlock()
	instance = svc
}

// Use returns the process-wide policy service, or nil before Setup.
func Use() *Service {
	initMu.Lock()
	defer initMu.Unlock()
	return instance
}
