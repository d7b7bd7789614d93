package nexus_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ossrh-publisher/pkg/domain/model"
	"github.com/m-mizutani/ossrh-publisher/pkg/infra/nexus"
)

const repositoryResponse = `<stagingProfileRepository>
  <profileId>abc123</profileId>
  <profileName>com.example</profileName>
  <profileType>repository</profileType>
  <repositoryId>comexample-1000</repositoryId>
  <type>closed</type>
  <policy>release</policy>
  <userId>deployer</userId>
  <transitioning>false</transitioning>
</stagingProfileRepository>`

const activityResponse = `<list>
  <stagingActivity>
    <name>close</name>
    <events>
      <stagingActivityEvent>
        <name>ruleFailed</name>
        <properties>
          <stagingProperty>
            <name>typeId</name>
            <value>signature-staging</value>
          </stagingProperty>
          <stagingProperty>
            <name>failureMessage</name>
            <value>Missing Signature: &apos;/com/example/core/1.0.0/core-1.0.0.pom.asc&apos; does not exist for &apos;core-1.0.0.pom&apos;.</value>
          </stagingProperty>
        </properties>
      </stagingActivityEvent>
      <stagingActivityEvent>
        <name>ruleFailed</name>
        <properties>
          <stagingProperty>
            <name>failureMessage</name>
            <value>Invalid POM: /com/example/core/1.0.0/core-1.0.0.pom: Project URL missing</value>
          </stagingProperty>
        </properties>
      </stagingActivityEvent>
    </events>
  </stagingActivity>
</list>`

func TestExtractStatus(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "closed repository", body: repositoryResponse, want: "closed"},
		{name: "open repository", body: "<x><type>open</type></x>", want: "open"},
		{name: "first element wins", body: "<type>released</type><type>open</type>", want: "released"},
		{name: "dotted token", body: "<type>a.b-c_d</type>", want: "a.b-c_d"},
		{name: "authentication failure page", body: "<html><title>401 Unauthorized</title></html>", wantErr: true},
		{name: "empty body", body: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := nexus.ExtractStatus(tc.body)
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, model.ErrParse))
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestExtractStagedRepositoryID(t *testing.T) {
	id, err := nexus.ExtractStagedRepositoryID(`<promoteResponse><data><stagedRepositoryId>comexample-1000</stagedRepositoryId><description>core-1.0.0</description></data></promoteResponse>`)
	gt.NoError(t, err)
	gt.Value(t, id).Equal("comexample-1000")

	_, err = nexus.ExtractStagedRepositoryID(`<nexus-error><errors><error><msg>Forbidden</msg></error></errors></nexus-error>`)
	gt.True(t, errors.Is(err, model.ErrParse))
}

func TestExtractFailureMessages(t *testing.T) {
	t.Run("messages in document order", func(t *testing.T) {
		msgs := nexus.ExtractFailureMessages(activityResponse)
		gt.A(t, msgs).Length(2)
		gt.Value(t, msgs[0]).Equal("Missing Signature: '/com/example/core/1.0.0/core-1.0.0.pom.asc' does not exist for 'core-1.0.0.pom'.")
		gt.Value(t, msgs[1]).Equal("Invalid POM: /com/example/core/1.0.0/core-1.0.0.pom: Project URL missing")
	})

	t.Run("no failure message", func(t *testing.T) {
		msgs := nexus.ExtractFailureMessages(repositoryResponse)
		gt.NotNil(t, msgs)
		gt.A(t, msgs).Length(0)
	})

	t.Run("CRLF between name and value", func(t *testing.T) {
		msgs := nexus.ExtractFailureMessages("<name>failureMessage</name>\r\n   <value>one</value>")
		gt.A(t, msgs).Length(1)
		gt.Value(t, msgs[0]).Equal("one")
	})
}

func TestExtractHTTPStatus(t *testing.T) {
	code, ok := nexus.ExtractHTTPStatus("HTTP/2 201 \r\ncontent-length: 0\r\n\r\n")
	gt.True(t, ok)
	gt.Value(t, code).Equal(201)

	code, ok = nexus.ExtractHTTPStatus("HTTP/1.1 100 Continue\r\n\r\nHTTP/1.1 403 Forbidden\r\n\r\n")
	gt.True(t, ok)
	gt.Value(t, code).Equal(403)

	_, ok = nexus.ExtractHTTPStatus("<xml/>")
	gt.False(t, ok)
}
