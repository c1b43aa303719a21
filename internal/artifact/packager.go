// Package artifact builds the configuration bundle a device is flashed with.
//
// A bundle is a zip archive holding a YAML manifest (device.yaml), a flat
// properties file (deviceConfig.properties) and, when configured, a set of
// firmware template files with device placeholders substituted.
package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

const (
	ManifestName   = "device.yaml"
	PropertiesName = "deviceConfig.properties"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PackRequest is everything that goes into one bundle.
type PackRequest struct {
	Owner        string
	Tenant       string
	DeviceType   string
	DeviceID     string
	DeviceName   string
	AccessToken  string
	RefreshToken string
}

// Manifest is the YAML document at the root of every bundle.
type Manifest struct {
	Owner        string    `yaml:"owner"`
	Tenant       string    `yaml:"tenant"`
	DeviceType   string    `yaml:"device_type"`
	DeviceID     string    `yaml:"device_id"`
	DeviceName   string    `yaml:"device_name"`
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	GeneratedAt  time.Time `yaml:"generated_at"`
}

// Bundle is a decoded artifact payload.
type Bundle struct {
	Manifest Manifest
	Files    map[string][]byte
}

type Packager struct {
	templates fs.FS
	now       func() time.Time
}

type Option func(*Packager)

// WithTemplates adds every regular file of fsys to the bundle, with
// ${DEVICE_*} placeholders replaced.
func WithTemplates(fsys fs.FS) Option {
	return func(p *Packager) {
		p.templates = fsys
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Packager) {
		p.now = now
	}
}

func NewPackager(opts ...Option) *Packager {
	p := &Packager{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileName returns the download name for a device bundle.
func FileName(deviceName, deviceID string) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(deviceName), "_")
	if name == "" {
		name = "device"
	}
	return name + "_" + deviceID + ".zip"
}

func (p *Packager) Pack(ctx context.Context, req PackRequest) (*models.Artifact, error) {
	const op = "artifact.Pack"

	if req.DeviceID == "" {
		return nil, apperrors.New(apperrors.KindPackaging, op, "device id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "packaging cancelled")
	}

	manifest := Manifest{
		Owner:        req.Owner,
		Tenant:       req.Tenant,
		DeviceType:   req.DeviceType,
		DeviceID:     req.DeviceID,
		DeviceName:   req.DeviceName,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		GeneratedAt:  p.now(),
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	manifestBytes, err := yaml.Marshal(&manifest)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "failed to encode manifest")
	}
	if err := writeEntry(zw, ManifestName, manifestBytes, manifest.GeneratedAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "failed to write manifest")
	}
	if err := writeEntry(zw, PropertiesName, properties(req), manifest.GeneratedAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "failed to write properties")
	}

	if p.templates != nil {
		if err := p.addTemplates(ctx, zw, req, manifest.GeneratedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "failed to render templates")
		}
	}

	if err := zw.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindPackaging, op, "failed to finish archive")
	}

	return &models.Artifact{
		FileName:    FileName(req.DeviceName, req.DeviceID),
		DeviceID:    req.DeviceID,
		ContentType: models.ArtifactContentType,
		Payload:     buf.Bytes(),
	}, nil
}

func (p *Packager) addTemplates(ctx context.Context, zw *zip.Writer, req PackRequest, modified time.Time) error {
	replacer := placeholders(req)

	var paths []string
	err := fs.WalkDir(p.templates, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && path != ManifestName && path != PropertiesName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk templates: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := fs.ReadFile(p.templates, path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}
		if err := writeEntry(zw, path, []byte(replacer.Replace(string(raw))), modified); err != nil {
			return fmt.Errorf("failed to write template %s: %w", path, err)
		}
	}
	return nil
}

func placeholders(req PackRequest) *strings.Replacer {
	return strings.NewReplacer(
		"${DEVICE_OWNER}", req.Owner,
		"${DEVICE_ID}", req.DeviceID,
		"${DEVICE_NAME}", req.DeviceName,
		"${DEVICE_TYPE}", req.DeviceType,
		"${TENANT_DOMAIN}", req.Tenant,
		"${DEVICE_TOKEN}", req.AccessToken,
		"${DEVICE_REFRESH_TOKEN}", req.RefreshToken,
	)
}

func properties(req PackRequest) []byte {
	var b strings.Builder
	for _, kv := range [][2]string{
		{"owner", req.Owner},
		{"tenantDomain", req.Tenant},
		{"deviceType", req.DeviceType},
		{"deviceId", req.DeviceID},
		{"deviceName", req.DeviceName},
		{"accessToken", req.AccessToken},
		{"refreshToken", req.RefreshToken},
	} {
		fmt.Fprintf(&b, "%s=%s\n", kv[0], escapeProperty(kv[1]))
	}
	return []byte(b.String())
}

var propertyEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)

func escapeProperty(v string) string {
	return propertyEscaper.Replace(v)
}

func writeEntry(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadBundle decodes a payload produced by Pack.
func ReadBundle(payload []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}

	bundle := &Bundle{Files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		bundle.Files[f.Name] = data
	}

	raw, ok := bundle.Files[ManifestName]
	if !ok {
		return nil, fmt.Errorf("bundle has no %s", ManifestName)
	}
	if err := yaml.Unmarshal(raw, &bundle.Manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return bundle, nil
}
