// file: metrics/cloudwatch.go

package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go-ref-assist/logger"
)

// CloudWatch pushes each event as a custom metric, dimensioned by match.
type CloudWatch struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	matchID   string
}

// NewCloudWatch builds a recorder with a client from the default AWS session chain.
func NewCloudWatch(namespace, matchID string) (*CloudWatch, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}
	return NewCloudWatchWithClient(cloudwatch.New(sess), namespace, matchID), nil
}

// NewCloudWatchWithClient is used by tests to inject a fake client.
func NewCloudWatchWithClient(client cloudwatchiface.CloudWatchAPI, namespace, matchID string) *CloudWatch {
	return &CloudWatch{client: client, namespace: namespace, matchID: matchID}
}

func (c *CloudWatch) IncidentIssued(cardType string) {
	go c.putMetric("IncidentsIssued", 1, cloudwatch.StandardUnitCount, "CardType", cardType)
}

func (c *CloudWatch) ReviewCleared(applied bool) {
	name := "ReviewClearsSuperseded"
	if applied {
		name = "ReviewClearsApplied"
	}
	go c.putMetric(name, 1, cloudwatch.StandardUnitCount, "", "")
}

func (c *CloudWatch) RecognitionCompleted(elapsed time.Duration, _ bool) {
	go c.putMetric("RecognitionLatencyMs", float64(elapsed.Milliseconds()), cloudwatch.StandardUnitMilliseconds, "", "")
}

func (c *CloudWatch) CameraTransition(string) {}

func (c *CloudWatch) CameraFailure(reason string) {
	go c.putMetric("CameraFailures", 1, cloudwatch.StandardUnitCount, "Reason", reason)
}

func (c *CloudWatch) Connections(count int) {
	go c.putMetric("ConsoleConnections", float64(count), cloudwatch.StandardUnitCount, "", "")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (c *CloudWatch) putMetric(metricName string, value float64, unit string, dimName, dimValue string) {
	dims := []*cloudwatch.Dimension{
		{
			Name:  aws.String("MatchID"),
			Value: aws.String(c.matchID),
		},
	}
	if dimName != "" {
		dims = append(dims, &cloudwatch.Dimension{Name: aws.String(dimName), Value: aws.String(dimValue)})
	}

	_, err := c.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: dims,
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[CloudWatch.putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
