package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreProvider implements the Database interface using Google Cloud Firestore.
// Each device is a document in "devices" holding the status, with its
// channels in a "channels" subcollection keyed by channel id.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
	now       func() time.Time
}

type channelDoc struct {
	Type    string    `firestore:"type"`
	Value   string    `firestore:"value"`
	Updated time.Time `firestore:"updated"`
}

type statusDoc struct {
	State       string    `firestore:"state"`
	Detail      string    `firestore:"detail"`
	Description string    `firestore:"description"`
	Updated     time.Time `firestore:"updated"`
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{now: time.Now}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// an empty project id is detected from the environment
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	if f.now == nil {
		f.now = time.Now
	}
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) getDevice(deviceID string) (*firestore.DocumentRef, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("deviceID cannot be empty")
	}
	return f.client.Collection("devices").Doc(deviceID), nil
}

// SetChannelState overwrites the channel document with the new value.
func (f *FirestoreProvider) SetChannelState(ctx context.Context, deviceID string, update types.ChannelUpdate) error {
	dev, err := f.getDevice(deviceID)
	if err != nil {
		return err
	}
	if update.ChannelID == "" {
		return fmt.Errorf("channelID cannot be empty")
	}
	_, err = dev.Collection("channels").Doc(update.ChannelID).Set(ctx, channelDoc{
		Type:    update.Value.Type.String(),
		Value:   update.Value.String(),
		Updated: f.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save channel %s: %w", update.ChannelID, err)
	}
	return nil
}

// SetStatus overwrites the status fields of the device document.
func (f *FirestoreProvider) SetStatus(ctx context.Context, deviceID string, s types.Status) error {
	dev, err := f.getDevice(deviceID)
	if err != nil {
		return err
	}
	_, err = dev.Set(ctx, statusDoc{
		State:       s.State.String(),
		Detail:      string(s.Detail),
		Description: s.Description,
		Updated:     f.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

// GetChannelStates reads every channel document of the device. Documents
// are returned in id order.
func (f *FirestoreProvider) GetChannelStates(ctx context.Context, deviceID string) ([]types.ChannelState, error) {
	dev, err := f.getDevice(deviceID)
	if err != nil {
		return nil, err
	}
	iter := dev.Collection("channels").OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var states []types.ChannelState
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating channels: %w", err)
		}

		var cd channelDoc
		if err := doc.DataTo(&cd); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to decode channel doc", slog.String("channelID", doc.Ref.ID), slog.String("deviceID", deviceID), slog.Any("err", err))
			return nil, fmt.Errorf("failed to decode channel (id=%s): %w", doc.Ref.ID, err)
		}
		vt, err := types.ParseValueType(cd.Type)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", doc.Ref.ID, err)
		}
		v, err := types.ParseValue(vt, cd.Value)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", doc.Ref.ID, err)
		}
		states = append(states, types.ChannelState{
			ChannelID: doc.Ref.ID,
			Value:     v,
			Updated:   cd.Updated,
		})
	}
	return states, nil
}

// GetStatus reads the status fields of the device document.
func (f *FirestoreProvider) GetStatus(ctx context.Context, deviceID string) (types.Status, error) {
	dev, err := f.getDevice(deviceID)
	if err != nil {
		return types.Status{}, err
	}
	doc, err := dev.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Status{}, ErrNotFound
		}
		return types.Status{}, fmt.Errorf("failed to fetch device doc: %w", err)
	}

	var sd statusDoc
	if err := doc.DataTo(&sd); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode status doc", slog.String("deviceID", deviceID), slog.Any("err", err))
		return types.Status{}, fmt.Errorf("failed to decode status: %w", err)
	}
	var state types.StatusState
	if err := state.UnmarshalText([]byte(sd.State)); err != nil {
		return types.Status{}, err
	}
	return types.Status{
		State:       state,
		Detail:      types.StatusDetail(sd.Detail),
		Description: sd.Description,
	}, nil
}
