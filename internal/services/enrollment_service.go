package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/prudhvinik1/deviceprov/internal/appkey"
	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	"github.com/prudhvinik1/deviceprov/internal/artifact"
	"github.com/prudhvinik1/deviceprov/internal/metrics"
	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/prudhvinik1/deviceprov/internal/repositories"
)

// MaxIDAttempts bounds how many freshly allocated ids Provision tries before
// giving up on a run of collisions.
const MaxIDAttempts = 3

type EnrollmentConfig struct {
	DeviceType    string
	KeyType       string
	AdminUsername string
	DefaultTenant string
}

// EnrollmentService provisions BYOD devices: it allocates an id, obtains a
// scoped token pair, enrolls the device and packages its credentials.
type EnrollmentService struct {
	cfg       EnrollmentConfig
	allocator IDAllocator
	keys      KeyProvider
	issuer    TokenIssuer
	registry  repositories.DeviceRegistry
	packager  Packager

	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*EnrollmentService)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *EnrollmentService) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *EnrollmentService) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *EnrollmentService) {
		s.tracer = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *EnrollmentService) {
		s.now = now
	}
}

func NewEnrollmentService(
	cfg EnrollmentConfig,
	allocator IDAllocator,
	keys KeyProvider,
	issuer TokenIssuer,
	registry repositories.DeviceRegistry,
	packager Packager,
	opts ...Option,
) *EnrollmentService {
	s := &EnrollmentService{
		cfg:       cfg,
		allocator: allocator,
		keys:      keys,
		issuer:    issuer,
		registry:  registry,
		packager:  packager,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("deviceprov/enrollment")
	}
	return s
}

// DeviceType is the device type every enrollment of this service uses.
func (s *EnrollmentService) DeviceType() string {
	return s.cfg.DeviceType
}

// Provision enrolls a new device for owner and returns its configuration
// bundle. Tokens are issued before the registry write so an enrolled device
// always has credentials; a failure at any stage aborts the call and nothing
// issued before it is persisted.
func (s *EnrollmentService) Provision(ctx context.Context, owner *models.Owner, deviceName string) (*models.Artifact, error) {
	const op = "enrollment.Provision"
	start := s.now()

	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()

	stage := metrics.StageValidate
	art, err := s.provision(ctx, span, &stage, owner, deviceName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ProvisionFinished(stage, s.now().Sub(start))
		return nil, err
	}
	s.metrics.ProvisionFinished(metrics.StageCompleted, s.now().Sub(start))
	return art, nil
}

func (s *EnrollmentService) provision(ctx context.Context, span trace.Span, stage *string, owner *models.Owner, deviceName string) (*models.Artifact, error) {
	const op = "enrollment.Provision"

	if owner == nil || strings.TrimSpace(owner.Username) == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, op, "an authenticated owner is required")
	}
	deviceName = strings.TrimSpace(deviceName)
	if deviceName == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, op, "device name is required")
	}
	tenant := owner.Tenant
	if tenant == "" {
		tenant = s.cfg.DefaultTenant
	}
	span.SetAttributes(
		attribute.String("device.owner", owner.Username),
		attribute.String("device.type", s.cfg.DeviceType),
	)

	*stage = metrics.StageAllocate
	deviceID, err := s.allocateID(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("device.id", deviceID))
	log := s.logger.With("device_id", deviceID, "owner", owner.Username)

	*stage = metrics.StageAppKey
	key, err := s.keys.GetOrCreate(ctx, appkey.Request{
		DeviceType: s.cfg.DeviceType,
		Tags:       []string{s.cfg.DeviceType},
		KeyType:    s.cfg.KeyType,
		Username:   s.cfg.AdminUsername,
	})
	if err != nil {
		log.Errorw("application key unavailable", "stage", *stage, "error", err)
		return nil, apperrors.Wrap(err, apperrors.KindProvisioning, op, "application key unavailable")
	}

	*stage = metrics.StageTokens
	scopes := []string{"device_type_" + s.cfg.DeviceType, "device_" + deviceID}
	pair, err := s.issuer.Issue(ctx, key.ConsumerKey, key.ConsumerSecret, owner.Username, scopes)
	if err != nil {
		log.Errorw("token issuance failed", "stage", *stage, "error", err)
		return nil, apperrors.Wrap(err, apperrors.KindCredentialIssuance, op, "token issuance failed")
	}
	span.AddEvent("tokens issued")

	*stage = metrics.StageRegister
	outcome := s.register(ctx, owner.Username, deviceID, deviceName)
	switch {
	case outcome.err != nil:
		return nil, apperrors.Wrap(outcome.err, apperrors.KindRegistration, op, "device registration failed")
	case !outcome.enrolled:
		return nil, apperrors.New(apperrors.KindRegistration, op, "device registration declined")
	}

	*stage = metrics.StagePackage
	art, err := s.packager.Pack(ctx, artifact.PackRequest{
		Owner:        owner.Username,
		Tenant:       tenant,
		DeviceType:   s.cfg.DeviceType,
		DeviceID:     deviceID,
		DeviceName:   deviceName,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		log.Errorw("artifact packaging failed", "stage", *stage, "error", err)
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "artifact packaging failed")
	}
	art.DeviceID = deviceID

	log.Infow("device provisioned", "device_name", deviceName, "file", art.FileName)
	return art, nil
}

// allocateID draws ids until one is not enrolled yet. Enroll still rejects a
// duplicate that slips in between the check and the write.
func (s *EnrollmentService) allocateID(ctx context.Context) (string, error) {
	const op = "enrollment.allocateID"

	for attempt := 1; attempt <= MaxIDAttempts; attempt++ {
		id := s.allocator.Generate()
		taken, err := s.registry.IsEnrolled(ctx, s.identifier(id))
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.KindRegistry, op, "failed to check device id")
		}
		if !taken {
			return id, nil
		}
		s.metrics.IDCollision()
		s.logger.Warnw("allocated device id already enrolled", "device_id", id, "attempt", attempt)
	}
	return "", apperrors.New(apperrors.KindProvisioning, op,
		fmt.Sprintf("no free device id after %d attempts", MaxIDAttempts))
}

type registration struct {
	enrolled bool
	err      error
}

// Register enrolls deviceID for owner as an ACTIVE BYOD device. It returns
// false when the id is already enrolled or the registry fails; the cause is
// logged.
func (s *EnrollmentService) Register(ctx context.Context, owner, deviceID, name string) bool {
	return s.register(ctx, owner, deviceID, name).enrolled
}

func (s *EnrollmentService) register(ctx context.Context, owner, deviceID, name string) registration {
	log := s.logger.With("device_id", deviceID, "owner", owner)
	id := s.identifier(deviceID)

	enrolled, err := s.registry.IsEnrolled(ctx, id)
	if err != nil {
		log.Errorw("registration check failed", "error", err)
		s.metrics.Registration("fault")
		return registration{err: err}
	}
	if enrolled {
		log.Infow("device already enrolled")
		s.metrics.Registration("declined")
		return registration{}
	}

	now := s.now()
	device := &models.Device{
		ID:   deviceID,
		Name: name,
		Type: s.cfg.DeviceType,
		Enrollment: models.EnrollmentInfo{
			Owner:         owner,
			Status:        models.StatusActive,
			Ownership:     models.OwnershipBYOD,
			EnrolledAt:    now,
			LastUpdatedAt: now,
		},
	}

	ok, err := s.registry.Enroll(ctx, device)
	if err != nil {
		log.Errorw("device enrollment failed", "error", err)
		s.metrics.Registration("fault")
		return registration{err: err}
	}
	if !ok {
		log.Warnw("registry declined enrollment")
		s.metrics.Registration("declined")
		return registration{}
	}

	s.metrics.Registration("enrolled")
	return registration{enrolled: true}
}

// Remove disenrolls a device. It returns false when the registry declines.
func (s *EnrollmentService) Remove(ctx context.Context, deviceID string) (bool, error) {
	const op = "enrollment.Remove"

	if strings.TrimSpace(deviceID) == "" {
		return false, apperrors.New(apperrors.KindInvalidRequest, op, "device id is required")
	}

	ok, err := s.registry.Disenroll(ctx, s.identifier(deviceID))
	if err != nil {
		s.logger.Errorw("device removal failed", "device_id", deviceID, "error", err)
		s.metrics.DeviceOperation("remove", "fault")
		return false, apperrors.Wrap(err, apperrors.KindRegistry, op, "failed to remove device")
	}
	s.metrics.DeviceOperation("remove", result(ok))
	return ok, nil
}

// Update renames a device and refreshes its last-updated time.
func (s *EnrollmentService) Update(ctx context.Context, deviceID, name string) (bool, error) {
	const op = "enrollment.Update"

	name = strings.TrimSpace(name)
	if strings.TrimSpace(deviceID) == "" || name == "" {
		return false, apperrors.New(apperrors.KindInvalidRequest, op, "device id and name are required")
	}

	device, err := s.get(ctx, op, deviceID)
	if err != nil {
		return false, err
	}

	device.Name = name
	device.Enrollment.LastUpdatedAt = s.now()

	ok, err := s.registry.Modify(ctx, device)
	if err != nil {
		s.logger.Errorw("device update failed", "device_id", deviceID, "error", err)
		s.metrics.DeviceOperation("update", "fault")
		return false, apperrors.Wrap(err, apperrors.KindRegistry, op, "failed to update device")
	}
	s.metrics.DeviceOperation("update", result(ok))
	return ok, nil
}

func (s *EnrollmentService) Get(ctx context.Context, deviceID string) (*models.Device, error) {
	const op = "enrollment.Get"

	if strings.TrimSpace(deviceID) == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, op, "device id is required")
	}
	return s.get(ctx, op, deviceID)
}

func (s *EnrollmentService) get(ctx context.Context, op, deviceID string) (*models.Device, error) {
	device, err := s.registry.Get(ctx, s.identifier(deviceID))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(err, apperrors.KindNotFound, op, "device not found")
	}
	if err != nil {
		s.logger.Errorw("device lookup failed", "device_id", deviceID, "error", err)
		return nil, apperrors.Wrap(err, apperrors.KindRegistry, op, "failed to get device")
	}
	return device, nil
}

// ListActiveForOwner returns the owner's ACTIVE devices of this service's
// device type, in registry order.
func (s *EnrollmentService) ListActiveForOwner(ctx context.Context, owner string) ([]*models.Device, error) {
	const op = "enrollment.ListActiveForOwner"

	if strings.TrimSpace(owner) == "" {
		return nil, apperrors.New(apperrors.KindInvalidRequest, op, "an authenticated owner is required")
	}

	all, err := s.registry.ListByOwner(ctx, owner)
	if err != nil {
		s.logger.Errorw("device listing failed", "owner", owner, "error", err)
		return nil, apperrors.Wrap(err, apperrors.KindRegistry, op, "failed to list devices")
	}

	active := make([]*models.Device, 0, len(all))
	for _, d := range all {
		if d.Type == s.cfg.DeviceType && d.IsActive() {
			active = append(active, d)
		}
	}
	return active, nil
}

func (s *EnrollmentService) identifier(deviceID string) models.DeviceIdentifier {
	return models.DeviceIdentifier{ID: deviceID, Type: s.cfg.DeviceType}
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "declined"
}
