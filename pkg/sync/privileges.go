// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package sync

// Privilege codes assignable to groups on the remote service. The wire
// values are fixed by the remote API.
const (
	PrivilegeCanBypassRLS         = "BYPASSRLS"
	PrivilegeCanSchedulePinboards = "JOBSCHEDULING"
	PrivilegeIsDeveloper          = "DEVELOPER"
	PrivilegeCanManageData        = "DATAMANAGEMENT"
	PrivilegeCanUploadData        = "USERDATAUPLOADING"
	PrivilegeCanUseExperimental   = "EXPERIMENTALFEATUREPRIVILEGE"
	PrivilegeCanUseAnalysis       = "A3ANALYSIS"
	PrivilegeIsAdministrator      = "ADMINISTRATION"
	PrivilegeCanUseR              = "RANALYSIS"
	PrivilegeCanDownloadData      = "DATADOWNLOADING"
	PrivilegeCanShareWithAll      = "SHAREWITHALL"
)

// AllPrivileges is the fixed enumeration the differ walks. Order is the
// order the remote calls are issued in.
var AllPrivileges = []string{
	PrivilegeCanBypassRLS,
	PrivilegeCanSchedulePinboards,
	PrivilegeIsDeveloper,
	PrivilegeCanManageData,
	PrivilegeCanUploadData,
	PrivilegeCanUseExperimental,
	PrivilegeCanUseAnalysis,
	PrivilegeIsAdministrator,
	PrivilegeCanUseR,
	PrivilegeCanDownloadData,
	PrivilegeCanShareWithAll,
}

// ProtectedGroups are system groups whose privileges are never touched.
var ProtectedGroups = []string{"All", "Administrator"}

func isProtectedGroup(name string) bool {
	for _, p := range ProtectedGroups {
		if p == name {
			return true
		}
	}
	return false
}
