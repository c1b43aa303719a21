package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/prudhvinik1/deviceprov/internal/appkey"
	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	"github.com/prudhvinik1/deviceprov/internal/artifact"
	"github.com/prudhvinik1/deviceprov/internal/metrics"
	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/prudhvinik1/deviceprov/internal/repositories"
	repomocks "github.com/prudhvinik1/deviceprov/internal/repositories/mocks"
	"github.com/prudhvinik1/deviceprov/internal/services"
	svcmocks "github.com/prudhvinik1/deviceprov/internal/services/mocks"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testConfig() services.EnrollmentConfig {
	return services.EnrollmentConfig{
		DeviceType:    "arduino",
		KeyType:       "PRODUCTION",
		AdminUsername: "admin",
		DefaultTenant: "carbon.super",
	}
}

func ident(id string) models.DeviceIdentifier {
	return models.DeviceIdentifier{ID: id, Type: "arduino"}
}

type EnrollmentSuite struct {
	suite.Suite
	ctx       context.Context
	allocator *svcmocks.MockIDAllocator
	keys      *svcmocks.MockKeyProvider
	issuer    *svcmocks.MockTokenIssuer
	packager  *svcmocks.MockPackager
	registry  *repomocks.MockDeviceRegistry
	metrics   *metrics.Metrics
	service   *services.EnrollmentService
}

func TestEnrollmentSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentSuite))
}

func (s *EnrollmentSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	s.allocator = svcmocks.NewMockIDAllocator(ctrl)
	s.keys = svcmocks.NewMockKeyProvider(ctrl)
	s.issuer = svcmocks.NewMockTokenIssuer(ctrl)
	s.packager = svcmocks.NewMockPackager(ctrl)
	s.registry = repomocks.NewMockDeviceRegistry(ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = services.NewEnrollmentService(
		testConfig(), s.allocator, s.keys, s.issuer, s.registry, s.packager,
		services.WithMetrics(s.metrics),
		services.WithClock(func() time.Time { return testNow }),
	)
}

func (s *EnrollmentSuite) alice() *models.Owner {
	return &models.Owner{Username: "alice"}
}

func (s *EnrollmentSuite) appKey() *models.ApplicationKey {
	return &models.ApplicationKey{ConsumerKey: "ck", ConsumerSecret: "cs", DeviceType: "arduino", KeyType: "PRODUCTION"}
}

func (s *EnrollmentSuite) expectAppKey() {
	s.keys.EXPECT().
		GetOrCreate(gomock.Any(), appkey.Request{
			DeviceType: "arduino",
			Tags:       []string{"arduino"},
			KeyType:    "PRODUCTION",
			Username:   "admin",
		}).
		Return(s.appKey(), nil)
}

func (s *EnrollmentSuite) expectTokens(id string) {
	s.issuer.EXPECT().
		Issue(gomock.Any(), "ck", "cs", "alice", []string{"device_type_arduino", "device_" + id}).
		Return(&models.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil)
}

func (s *EnrollmentSuite) TestProvision_Success() {
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil).Times(2)
	s.expectAppKey()
	s.expectTokens("abc123")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *models.Device) (bool, error) {
			s.Equal("abc123", d.ID)
			s.Equal("greenhouse-1", d.Name)
			s.Equal("arduino", d.Type)
			s.Equal("alice", d.Enrollment.Owner)
			s.Equal(models.StatusActive, d.Enrollment.Status)
			s.Equal(models.OwnershipBYOD, d.Enrollment.Ownership)
			s.Equal(testNow, d.Enrollment.EnrolledAt)
			s.Equal(testNow, d.Enrollment.LastUpdatedAt)
			return true, nil
		})
	s.packager.EXPECT().
		Pack(gomock.Any(), artifact.PackRequest{
			Owner:        "alice",
			Tenant:       "carbon.super",
			DeviceType:   "arduino",
			DeviceID:     "abc123",
			DeviceName:   "greenhouse-1",
			AccessToken:  "at",
			RefreshToken: "rt",
		}).
		Return(&models.Artifact{FileName: "greenhouse-1_abc123.zip", Payload: []byte("zip")}, nil)

	art, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.Require().NoError(err)
	s.Equal("abc123", art.DeviceID)
	s.Contains(art.FileName, "greenhouse-1")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ProvisionOutcomes.WithLabelValues(metrics.StageCompleted)))
}

func (s *EnrollmentSuite) TestProvision_OwnerTenantUsed() {
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil).Times(2)
	s.expectAppKey()
	s.expectTokens("abc123")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(true, nil)
	s.packager.EXPECT().Pack(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req artifact.PackRequest) (*models.Artifact, error) {
			s.Equal("acme.com", req.Tenant)
			return &models.Artifact{FileName: "x.zip"}, nil
		})

	_, err := s.service.Provision(s.ctx, &models.Owner{Username: "alice", Tenant: "acme.com"}, "kitchen")
	s.Require().NoError(err)
}

func (s *EnrollmentSuite) TestProvision_MissingOwnerTouchesNothing() {
	// no expectations: any collaborator call fails the test
	for _, owner := range []*models.Owner{nil, {Username: ""}, {Username: "   "}} {
		_, err := s.service.Provision(s.ctx, owner, "greenhouse-1")
		s.Require().Error(err)
		s.ErrorIs(err, apperrors.InvalidRequest)
		s.NotEmpty(apperrors.PublicMessage(err))
	}
	s.Equal(3.0, testutil.ToFloat64(s.metrics.ProvisionOutcomes.WithLabelValues(metrics.StageValidate)))
}

func (s *EnrollmentSuite) TestProvision_BlankName() {
	_, err := s.service.Provision(s.ctx, s.alice(), "  ")
	s.ErrorIs(err, apperrors.InvalidRequest)
}

func (s *EnrollmentSuite) TestProvision_AppKeyFailure() {
	upstream := errors.New("key manager down")
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil)
	s.keys.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).Return(nil, upstream)

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Provisioning)
	s.ErrorIs(err, upstream)
}

func (s *EnrollmentSuite) TestProvision_TokenFailureWritesNothing() {
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil)
	s.expectAppKey()
	s.issuer.EXPECT().Issue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("token endpoint unreachable"))
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.CredentialIssuance)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ProvisionOutcomes.WithLabelValues(metrics.StageTokens)))
}

func (s *EnrollmentSuite) TestProvision_RegistrationDeclined() {
	s.allocator.EXPECT().Generate().Return("abc123")
	gomock.InOrder(
		s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil),
		s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil),
	)
	s.expectAppKey()
	s.expectTokens("abc123")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(false, nil)

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Registration)
	s.Nil(errors.Unwrap(err), "a declined registration has no underlying fault")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RegistrationOutcomes.WithLabelValues("declined")))
}

func (s *EnrollmentSuite) TestProvision_RegistrationFault() {
	fault := errors.New("connection reset")
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil).Times(2)
	s.expectAppKey()
	s.expectTokens("abc123")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(false, fault)

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Registration)
	s.ErrorIs(err, fault)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RegistrationOutcomes.WithLabelValues("fault")))
}

func (s *EnrollmentSuite) TestProvision_CollisionReallocates() {
	gomock.InOrder(
		s.allocator.EXPECT().Generate().Return("taken"),
		s.allocator.EXPECT().Generate().Return("free"),
	)
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("taken")).Return(true, nil)
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("free")).Return(false, nil).Times(2)
	s.expectAppKey()
	s.expectTokens("free")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(true, nil)
	s.packager.EXPECT().Pack(gomock.Any(), gomock.Any()).Return(&models.Artifact{FileName: "g_free.zip"}, nil)

	art, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.Require().NoError(err)
	s.Equal("free", art.DeviceID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.IDCollisions))
}

func (s *EnrollmentSuite) TestProvision_CollisionsExhausted() {
	s.allocator.EXPECT().Generate().Return("taken").Times(services.MaxIDAttempts)
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("taken")).Return(true, nil).Times(services.MaxIDAttempts)

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Provisioning)
}

func (s *EnrollmentSuite) TestProvision_AllocationCheckFault() {
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, errors.New("db down"))

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Registry)
}

func (s *EnrollmentSuite) TestProvision_PackagingFailure() {
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil).Times(2)
	s.expectAppKey()
	s.expectTokens("abc123")
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(true, nil)
	s.packager.EXPECT().Pack(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full"))

	_, err := s.service.Provision(s.ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, apperrors.Packaging)
}

func (s *EnrollmentSuite) TestProvision_CancellationPropagates() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.allocator.EXPECT().Generate().Return("abc123")
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil)
	s.keys.EXPECT().GetOrCreate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ appkey.Request) (*models.ApplicationKey, error) {
			return nil, ctx.Err()
		})

	_, err := s.service.Provision(ctx, s.alice(), "greenhouse-1")
	s.ErrorIs(err, context.Canceled)
}

func (s *EnrollmentSuite) TestRegister_AlreadyEnrolled() {
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(true, nil)
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Times(0)

	s.False(s.service.Register(s.ctx, "alice", "abc123", "kitchen"))
}

func (s *EnrollmentSuite) TestRegister_FaultIsSwallowed() {
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, nil)
	s.registry.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))

	s.False(s.service.Register(s.ctx, "alice", "abc123", "kitchen"))
}

func (s *EnrollmentSuite) TestRegister_CheckFaultIsSwallowed() {
	s.registry.EXPECT().IsEnrolled(gomock.Any(), ident("abc123")).Return(false, errors.New("timeout"))

	s.False(s.service.Register(s.ctx, "alice", "abc123", "kitchen"))
}

func (s *EnrollmentSuite) TestRemove() {
	s.registry.EXPECT().Disenroll(gomock.Any(), ident("abc123")).Return(true, nil)
	ok, err := s.service.Remove(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(ok)

	s.registry.EXPECT().Disenroll(gomock.Any(), ident("unknown")).Return(false, nil)
	ok, err = s.service.Remove(s.ctx, "unknown")
	s.Require().NoError(err)
	s.False(ok)

	fault := errors.New("db down")
	s.registry.EXPECT().Disenroll(gomock.Any(), ident("abc123")).Return(false, fault)
	_, err = s.service.Remove(s.ctx, "abc123")
	s.ErrorIs(err, apperrors.Registry)
	s.ErrorIs(err, fault)
}

func (s *EnrollmentSuite) TestUpdate() {
	enrolledAt := testNow.Add(-time.Hour)
	existing := &models.Device{
		ID:   "abc123",
		Name: "kitchen",
		Type: "arduino",
		Enrollment: models.EnrollmentInfo{
			Owner:         "alice",
			Status:        models.StatusActive,
			Ownership:     models.OwnershipBYOD,
			EnrolledAt:    enrolledAt,
			LastUpdatedAt: enrolledAt,
		},
	}
	s.registry.EXPECT().Get(gomock.Any(), ident("abc123")).Return(existing, nil)
	s.registry.EXPECT().Modify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *models.Device) (bool, error) {
			s.Equal("living room", d.Name)
			s.Equal(enrolledAt, d.Enrollment.EnrolledAt)
			s.Equal(testNow, d.Enrollment.LastUpdatedAt)
			s.Equal("alice", d.Enrollment.Owner)
			return true, nil
		})

	ok, err := s.service.Update(s.ctx, "abc123", "living room")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *EnrollmentSuite) TestUpdate_NotFound() {
	s.registry.EXPECT().Get(gomock.Any(), ident("missing")).Return(nil, repositories.ErrNotFound)
	s.registry.EXPECT().Modify(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Update(s.ctx, "missing", "name")
	s.ErrorIs(err, apperrors.NotFound)
}

func (s *EnrollmentSuite) TestUpdate_BlankName() {
	_, err := s.service.Update(s.ctx, "abc123", "")
	s.ErrorIs(err, apperrors.InvalidRequest)
}

func (s *EnrollmentSuite) TestGet() {
	s.registry.EXPECT().Get(gomock.Any(), ident("missing")).Return(nil, repositories.ErrNotFound)
	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, apperrors.NotFound)

	s.registry.EXPECT().Get(gomock.Any(), ident("broken")).Return(nil, errors.New("db down"))
	_, err = s.service.Get(s.ctx, "broken")
	s.ErrorIs(err, apperrors.Registry)
}

func (s *EnrollmentSuite) TestListActiveForOwner_Filters() {
	device := func(id, typ string, status models.EnrollmentStatus) *models.Device {
		return &models.Device{ID: id, Type: typ, Enrollment: models.EnrollmentInfo{Owner: "alice", Status: status}}
	}
	s.registry.EXPECT().ListByOwner(gomock.Any(), "alice").Return([]*models.Device{
		device("z1", "arduino", models.StatusActive),
		device("a2", "raspberrypi", models.StatusActive),
		device("m3", "arduino", models.StatusRemoved),
		device("b4", "arduino", models.StatusInactive),
		device("c5", "arduino", models.StatusActive),
	}, nil)

	got, err := s.service.ListActiveForOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("z1", got[0].ID)
	s.Equal("c5", got[1].ID)
}

func (s *EnrollmentSuite) TestListActiveForOwner_Errors() {
	_, err := s.service.ListActiveForOwner(s.ctx, "")
	s.ErrorIs(err, apperrors.InvalidRequest)

	s.registry.EXPECT().ListByOwner(gomock.Any(), "alice").Return(nil, errors.New("db down"))
	_, err = s.service.ListActiveForOwner(s.ctx, "alice")
	s.ErrorIs(err, apperrors.Registry)
}
