package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/biscotto/internal/client/models"
)

func (c *Client) GetHome(ctx context.Context) (*models.HomeSettings, error) {
	var out struct {
		Settings models.HomeSettings `json:"settings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/settings/home", nil, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *Client) GetAbout(ctx context.Context) (*models.AboutSettings, error) {
	var out struct {
		Settings models.AboutSettings `json:"settings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/settings/about", nil, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *Client) UpdateHome(ctx context.Context, in models.HomeSettingsInput) (*models.HomeSettings, error) {
	var out struct {
		Settings models.HomeSettings `json:"settings"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/settings/home", in, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *Client) UpdateAbout(ctx context.Context, in models.AboutSettingsInput) (*models.AboutSettings, error) {
	var out struct {
		Settings models.AboutSettings `json:"settings"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/settings/about", in, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}
