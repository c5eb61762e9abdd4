package bucketx

import (
	"context"

	"go.uber.org/fx"
)

// Module provides a lifecycle-managed *Client for fx applications. Supply a
// *Config (for example via fx.Supply or a provider built on LoadConfig); the
// session is released when the application stops.
//
// Example usage:
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    bucketx.Module,
//	    fx.Invoke(func(client *bucketx.Client) {
//	        // Use client...
//	    }),
//	)
var Module = fx.Module("bucketx",
	fx.Provide(NewClient),
)

// ClientParams defines the dependencies for client creation
type ClientParams struct {
	fx.In

	Config       *Config
	Logger       Logger        `optional:"true"`
	Instrumenter *Instrumenter `optional:"true"`
}

// NewClient constructs a Client inside an fx graph, tying Close to the
// application lifecycle
func NewClient(lc fx.Lifecycle, params ClientParams) (*Client, error) {
	var options []Option
	if params.Logger != nil {
		options = append(options, WithLogger(params.Logger))
	}
	if params.Instrumenter != nil {
		options = append(options, WithInstrumenter(params.Instrumenter))
	}

	client, err := New(context.Background(), params.Config, options...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
