// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package io

import (
	"context"
	"fmt"

	"github.com/k-capehart/go-salesforce/v2"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
)

const allTeamMembersQuery = "SELECT fHCM2__Email__c, Department2__c, fHCM2__Team__c FROM fHCM2__Team_Member__c"

// teamMemberRecord is a single Salesforce team member row.
type teamMemberRecord struct {
	Email      string `mapstructure:"fHCM2__Email__c"`
	Department string `mapstructure:"Department2__c"`
	Team       string `mapstructure:"fHCM2__Team__c"`
}

// SalesforceInterface is the slice of the Salesforce client the reader
// needs.
type SalesforceInterface interface {
	Query(string, any) error
}

func NewSalesforceClient(domain, consumerKey, consumerSecret string) (*salesforce.Salesforce, error) {
	return salesforce.Init(salesforce.Creds{
		Domain:         domain,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
	})
}

var _ ReaderInterface = (*SalesforceReader)(nil)

// SalesforceReader builds a container from team member records: one user
// per email, joined to its department and team groups.
type SalesforceReader struct {
	client SalesforceInterface
	logger logging.LoggerInterface
}

func NewSalesforceReader(client SalesforceInterface, logger logging.LoggerInterface) *SalesforceReader {
	r := new(SalesforceReader)

	r.client = client
	r.logger = logger

	return r
}

func (r *SalesforceReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	var records []teamMemberRecord
	if err := r.client.Query(allTeamMembersQuery, &records); err != nil {
		return nil, fmt.Errorf("failed to query salesforce team members: %w", err)
	}

	ugs := principal.NewUsersAndGroups()
	for _, record := range records {
		if record.Email == "" {
			r.logger.Warn("skipping team member record without an email")
			continue
		}

		if ugs.HasUser(record.Email) {
			r.logger.Warnf("duplicate team member record for %s, keeping the first", record.Email)
			continue
		}

		u := principal.NewUser(record.Email)
		for _, groupName := range []string{record.Department, record.Team} {
			if groupName == "" {
				continue
			}
			u.AddGroup(groupName)
			ugs.AddGroup(principal.NewGroup(groupName), principal.IgnoreOnDuplicate)
		}

		if err := ugs.AddUser(u, principal.RaiseErrorOnDuplicate); err != nil {
			return nil, err
		}
	}

	r.logger.Infof("loaded %d users and %d groups from salesforce", ugs.NumberUsers(), ugs.NumberGroups())
	return ugs, nil
}
